package wire

import (
	"ticketbook/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireState(r chi.Router, stateHandler *adaptor.StateHandler) {
	r.Get("/api/state", stateHandler.GetState)
	r.Delete("/api/state/error", stateHandler.ClearError)
	r.Post("/api/refresh", stateHandler.Refresh)
	r.Get("/api/status", stateHandler.GetStatus)

	r.Get("/api/admin/stats", stateHandler.GetStats)
}
