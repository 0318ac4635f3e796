package wire

import (
	"ticketbook/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Post("/api/bookings", bookingHandler.CreateBooking)
	r.Get("/api/users/{id}/bookings", bookingHandler.GetUserBookings)

	r.Get("/api/admin/bookings", bookingHandler.ListBookings)
}
