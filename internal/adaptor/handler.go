package adaptor

import (
	"net/http"

	"ticketbook/internal/usecase"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Show    *ShowHandler
	Booking *BookingHandler
	State   *StateHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Show:    NewShowHandler(service.Booking, log),
		Booking: NewBookingHandler(service.Booking, log),
		State:   NewStateHandler(service.Booking, service.Status, log),
	}
}

// respondOperationError turns the error left by a failed manager operation
// into an HTTP response.
func respondOperationError(w http.ResponseWriter, log *zap.Logger, service usecase.BookingService, operation string) {
	opErr := service.Snapshot().Error
	if opErr == nil {
		log.Error(operation+" failed without an error", zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch opErr.Kind {
	case usecase.ErrorKindInvalid:
		log.Warn("Invalid input for "+operation, zap.String("message", opErr.Message))
		utils.ResponseBadRequest(w, opErr.Message, nil)

	case usecase.ErrorKindNotFound:
		log.Warn(operation+" failed - not found", zap.String("message", opErr.Message))
		utils.ResponseNotFound(w, opErr.Message)

	case usecase.ErrorKindConflict:
		log.Warn(operation+" failed - seat already booked", zap.String("message", opErr.Message))
		utils.ResponseConflict(w, opErr.Message)

	default:
		log.Error("Failed to "+operation,
			zap.String("kind", string(opErr.Kind)),
			zap.String("message", opErr.Message),
		)
		utils.ResponseInternalError(w, opErr.Message)
	}
}
