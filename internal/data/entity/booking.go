package entity

import (
	"slices"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusFailed    BookingStatus = "failed"
)

type Booking struct {
	ID          string        `json:"id"`
	ShowID      string        `json:"showId"`
	UserID      string        `json:"userId"`
	Seats       []int         `json:"seats"`
	Status      BookingStatus `json:"status"`
	TotalAmount float64       `json:"totalAmount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (b Booking) Clone() Booking {
	b.Seats = slices.Clone(b.Seats)
	return b
}
