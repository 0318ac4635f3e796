package request

// CreateBookingRequest is the booking form body for POST /api/bookings.
type CreateBookingRequest struct {
	ShowID string `json:"show_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
	Seats  []int  `json:"seats" validate:"required,min=1,dive,gt=0"`
}

// RemoteBookingRequest is the wire payload posted to the remote service.
// The remote contract uses camelCase here, unlike the show payload.
type RemoteBookingRequest struct {
	ShowID string `json:"showId"`
	UserID string `json:"userId"`
	Seats  []int  `json:"seats"`
}
