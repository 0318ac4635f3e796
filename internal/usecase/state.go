package usecase

import (
	"time"

	"ticketbook/internal/data/entity"
)

type ErrorKind string

const (
	ErrorKindInvalid  ErrorKind = "invalid"
	ErrorKindNotFound ErrorKind = "not_found"
	ErrorKindConflict ErrorKind = "conflict"
	ErrorKindRemote   ErrorKind = "remote"
	ErrorKindStorage  ErrorKind = "storage"
)

// OperationError is the value-level failure left behind by the last operation.
type OperationError struct {
	Kind    ErrorKind
	Message string
	At      time.Time
}

// NewShow carries the admin form fields. Business rules are checked by the caller.
type NewShow struct {
	Name       string
	StartTime  time.Time
	TotalSeats int
	Price      float64
	Type       entity.ShowType
}

// State is a read-only copy of the manager's collections and flags.
type State struct {
	Shows       []entity.Show
	Bookings    []entity.Booking
	Loading     bool
	Error       *OperationError
	Initialized bool
}

type Stats struct {
	Shows             int
	Trips             int
	ConfirmedBookings int
	Revenue           float64
}

// stateChange lists the collections an operation replaces. A nil slice
// leaves that collection untouched.
type stateChange struct {
	shows    []entity.Show
	bookings []entity.Booking
	pending  []entity.PendingSync
}

func cloneShows(shows []entity.Show) []entity.Show {
	out := make([]entity.Show, len(shows))
	for i, s := range shows {
		out[i] = s.Clone()
	}
	return out
}

func cloneBookings(bookings []entity.Booking) []entity.Booking {
	out := make([]entity.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = b.Clone()
	}
	return out
}

// appendCopy never writes into the backing array of items.
func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
