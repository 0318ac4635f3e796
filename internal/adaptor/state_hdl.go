package adaptor

import (
	"net/http"
	"time"

	"ticketbook/internal/dto/response"
	"ticketbook/internal/usecase"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

type StateHandler struct {
	service usecase.BookingService
	status  usecase.StatusService
	log     *zap.Logger
}

func NewStateHandler(service usecase.BookingService, status usecase.StatusService, log *zap.Logger) *StateHandler {
	return &StateHandler{
		service: service,
		status:  status,
		log:     log.With(zap.String("handler", "state")),
	}
}

// GetState handles GET /api/state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", stateToResponse(h.service.Snapshot()))
}

// ClearError handles DELETE /api/state/error
func (h *StateHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.service.ClearError()
	utils.ResponseSuccess(w, "success", stateToResponse(h.service.Snapshot()))
}

// Refresh handles POST /api/refresh. Local data is kept when the remote
// service is unreachable, so only the resulting state is reported.
func (h *StateHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.RefreshShows(r.Context())
	utils.ResponseSuccess(w, "success", stateToResponse(h.service.Snapshot()))
}

// GetStats handles GET /api/admin/stats
func (h *StateHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Stats()
	utils.ResponseSuccess(w, "success", response.StatsResponse{
		Shows:             stats.Shows,
		Trips:             stats.Trips,
		ConfirmedBookings: stats.ConfirmedBookings,
		Revenue:           stats.Revenue,
	})
}

// GetStatus handles GET /api/status
func (h *StateHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.status.Status()

	out := response.StatusResponse{
		RemoteOnline: status.Online,
		PendingSync:  h.service.PendingCount(),
	}
	if !status.LastCheckedAt.IsZero() {
		out.LastCheckedAt = status.LastCheckedAt.Format(time.RFC3339)
	}

	utils.ResponseSuccess(w, "success", out)
}

func stateToResponse(state usecase.State) response.StateResponse {
	out := response.StateResponse{
		Loading:     state.Loading,
		Initialized: state.Initialized,
		Shows:       len(state.Shows),
		Bookings:    len(state.Bookings),
	}
	if state.Error != nil {
		out.Error = &response.ErrorInfo{
			Kind:    string(state.Error.Kind),
			Message: state.Error.Message,
		}
	}
	return out
}
