package adaptor

import (
	"net/http"

	"ticketbook/internal/dto/request"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/usecase"
	"ticketbook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, ok := h.service.CreateBookingResult(r.Context(), req.ShowID, req.Seats, req.UserID)
	if !ok {
		respondOperationError(w, h.log, h.service, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking confirmed", response.BookingToResponse(booking))
}

// ListBookings handles GET /api/admin/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.service.Snapshot().Bookings
	utils.ResponseSuccess(w, "success", response.BookingsToResponse(bookings))
}

// GetUserBookings handles GET /api/users/{id}/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	bookings := h.service.GetBookingsByUser(userID)
	utils.ResponseSuccess(w, "success", response.BookingsToResponse(bookings))
}
