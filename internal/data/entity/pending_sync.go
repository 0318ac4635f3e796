package entity

import "time"

type SyncKind string

const (
	SyncKindShow    SyncKind = "show"
	SyncKindBooking SyncKind = "booking"
)

// PendingSync is a locally committed record that the remote service has not
// acknowledged yet. Entries are replayed in order by the sync worker.
type PendingSync struct {
	ID        string    `json:"id"`
	Kind      SyncKind  `json:"kind"`
	LocalID   string    `json:"localId"`
	Show      *Show     `json:"show,omitempty"`
	Booking   *Booking  `json:"booking,omitempty"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
