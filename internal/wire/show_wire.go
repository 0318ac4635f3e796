package wire

import (
	"ticketbook/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShow(r chi.Router, showHandler *adaptor.ShowHandler) {
	r.Route("/api/shows", func(r chi.Router) {
		r.Get("/", showHandler.ListShows)
		r.Get("/{id}", showHandler.GetShow)
		r.Get("/{id}/seats", showHandler.GetSeatMap)
		r.Get("/{id}/bookings", showHandler.GetShowBookings)
	})

	r.Post("/api/admin/shows", showHandler.CreateShow)
}
