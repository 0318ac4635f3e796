package entity

import (
	"slices"
	"time"
)

type ShowType string

const (
	ShowTypeShow ShowType = "show"
	ShowTypeTrip ShowType = "trip"
)

// Show is a bookable event with a fixed seat capacity.
type Show struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartTime   time.Time `json:"startTime"`
	TotalSeats  int       `json:"totalSeats"`
	BookedSeats []int     `json:"bookedSeats"`
	Price       float64   `json:"price"`
	Type        ShowType  `json:"type"`
}

// IsBooked reports whether seat is already taken.
func (s Show) IsBooked(seat int) bool {
	return slices.Contains(s.BookedSeats, seat)
}

// HasSeat reports whether seat is a seat number of this show.
func (s Show) HasSeat(seat int) bool {
	return seat >= 1 && seat <= s.TotalSeats
}

// AvailableSeats lists the seat numbers in [1, TotalSeats] not yet booked.
func (s Show) AvailableSeats() []int {
	taken := make(map[int]struct{}, len(s.BookedSeats))
	for _, seat := range s.BookedSeats {
		taken[seat] = struct{}{}
	}

	available := make([]int, 0, max(0, s.TotalSeats-len(taken)))
	for seat := 1; seat <= s.TotalSeats; seat++ {
		if _, ok := taken[seat]; !ok {
			available = append(available, seat)
		}
	}
	return available
}

// WithSeatsBooked returns a copy of the show with seats unioned into BookedSeats.
// Seats already present, and seats outside [1, TotalSeats], are not added.
func (s Show) WithSeatsBooked(seats []int) Show {
	booked := slices.Clone(s.BookedSeats)
	for _, seat := range seats {
		if s.HasSeat(seat) && !slices.Contains(booked, seat) {
			booked = append(booked, seat)
		}
	}
	s.BookedSeats = booked
	return s
}

// Clone returns a deep copy safe to hand out of the manager.
func (s Show) Clone() Show {
	s.BookedSeats = slices.Clone(s.BookedSeats)
	if s.BookedSeats == nil {
		s.BookedSeats = []int{}
	}
	return s
}
