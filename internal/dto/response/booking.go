package response

import (
	"time"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/dto/request"
)

// BookingResponse is the remote service's booking object.
type BookingResponse struct {
	ID          string    `json:"id" validate:"required"`
	ShowID      string    `json:"show_id" validate:"required"`
	UserID      string    `json:"user_id" validate:"required"`
	Seats       []int     `json:"seats" validate:"required,min=1,unique,dive,gt=0"`
	Status      string    `json:"status" validate:"required,oneof=pending confirmed failed"`
	TotalAmount float64   `json:"total_amount" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingListResponse wraps GET /admin/bookings.
type BookingListResponse struct {
	Data []BookingResponse `json:"data" validate:"dive"`
}

// StatsResponse backs the admin dashboard counters.
type StatsResponse struct {
	Shows             int     `json:"shows"`
	Trips             int     `json:"trips"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	Revenue           float64 `json:"revenue"`
}

func BookingToEntity(b BookingResponse) entity.Booking {
	return entity.Booking{
		ID:          b.ID,
		ShowID:      b.ShowID,
		UserID:      b.UserID,
		Seats:       append([]int(nil), b.Seats...),
		Status:      entity.BookingStatus(b.Status),
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
	}
}

func BookingToResponse(b entity.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ShowID:      b.ShowID,
		UserID:      b.UserID,
		Seats:       append([]int{}, b.Seats...),
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
	}
}

func BookingsToResponse(bookings []entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}

func BookingToRemoteRequest(b entity.Booking) request.RemoteBookingRequest {
	return request.RemoteBookingRequest{
		ShowID: b.ShowID,
		UserID: b.UserID,
		Seats:  append([]int(nil), b.Seats...),
	}
}
