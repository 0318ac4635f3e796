package request

import "time"

// CreateShowRequest is the admin form body for POST /api/admin/shows.
type CreateShowRequest struct {
	Name       string    `json:"name" validate:"required,notblank,max=200"`
	StartTime  time.Time `json:"start_time" validate:"required,future"`
	TotalSeats int       `json:"total_seats" validate:"required,gt=0,max=10000"`
	Price      float64   `json:"price" validate:"gte=0"`
	Type       string    `json:"type" validate:"omitempty,oneof=show trip"`
}

// RemoteShowRequest is the wire payload posted to the remote service.
type RemoteShowRequest struct {
	Name       string  `json:"name"`
	StartTime  string  `json:"start_time"`
	TotalSeats int     `json:"total_seats"`
	Price      float64 `json:"price"`
	Type       string  `json:"type"`
}
