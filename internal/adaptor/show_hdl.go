package adaptor

import (
	"net/http"
	"strings"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/dto/request"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/usecase"
	"ticketbook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewShowHandler(service usecase.BookingService, log *zap.Logger) *ShowHandler {
	return &ShowHandler{
		service: service,
		log:     log.With(zap.String("handler", "show")),
	}
}

// ListShows handles GET /api/shows, optionally filtered by ?type=show|trip
func (h *ShowHandler) ListShows(w http.ResponseWriter, r *http.Request) {
	filter := entity.ShowType(strings.TrimSpace(r.URL.Query().Get("type")))
	if filter != "" && filter != entity.ShowTypeShow && filter != entity.ShowTypeTrip {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"type": "Must be one of: show, trip"})
		return
	}

	shows := h.service.Snapshot().Shows
	if filter != "" {
		filtered := make([]entity.Show, 0, len(shows))
		for _, s := range shows {
			if s.Type == filter {
				filtered = append(filtered, s)
			}
		}
		shows = filtered
	}

	utils.ResponseSuccess(w, "success", response.ShowsToResponse(shows))
}

// GetShow handles GET /api/shows/{id}
func (h *ShowHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	show, ok := h.service.GetShow(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseNotFound(w, "Show not found")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowToResponse(show))
}

// GetSeatMap handles GET /api/shows/{id}/seats
func (h *ShowHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	show, ok := h.service.GetShow(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseNotFound(w, "Show not found")
		return
	}

	utils.ResponseSuccess(w, "success", response.SeatMapToResponse(show))
}

// GetShowBookings handles GET /api/shows/{id}/bookings. The show does not
// have to exist.
func (h *ShowHandler) GetShowBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.service.GetBookingsByShow(chi.URLParam(r, "id"))
	utils.ResponseSuccess(w, "success", response.BookingsToResponse(bookings))
}

// CreateShow handles POST /api/admin/shows
func (h *ShowHandler) CreateShow(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	show, ok := h.service.AddShowResult(r.Context(), usecase.NewShow{
		Name:       strings.TrimSpace(req.Name),
		StartTime:  req.StartTime,
		TotalSeats: req.TotalSeats,
		Price:      req.Price,
		Type:       entity.ShowType(req.Type),
	})
	if !ok {
		respondOperationError(w, h.log, h.service, "create show")
		return
	}

	utils.ResponseCreated(w, "Show added", response.ShowToResponse(show))
}
