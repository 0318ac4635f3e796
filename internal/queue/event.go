// Package queue defines the booking notifications sent over the message broker.
package queue

import "time"

// BookingConfirmedEvent is published once a booking is committed locally.
// Synced is false while the remote service has not acknowledged it yet.
type BookingConfirmedEvent struct {
	BookingID   string    `json:"booking_id"`
	ShowID      string    `json:"show_id"`
	ShowName    string    `json:"show_name"`
	ShowType    string    `json:"show_type"`
	StartsAt    time.Time `json:"starts_at"`
	UserID      string    `json:"user_id"`
	Seats       []int     `json:"seats"`
	TotalAmount float64   `json:"total_amount"`
	Synced      bool      `json:"synced"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
