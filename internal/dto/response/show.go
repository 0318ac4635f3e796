package response

import (
	"time"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/dto/request"
)

// ShowResponse is the remote service's show object.
type ShowResponse struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	TotalSeats  int       `json:"total_seats" validate:"gt=0"`
	BookedSeats []int     `json:"booked_seats,omitempty" validate:"omitempty,unique,seatsin=TotalSeats"`
	Price       float64   `json:"price" validate:"gte=0"`
	Type        string    `json:"type,omitempty" validate:"omitempty,oneof=show trip"`
}

// ShowListResponse wraps GET /admin/shows.
type ShowListResponse struct {
	Data []ShowResponse `json:"data" validate:"dive"`
}

// SeatMapResponse feeds the seat picker of the booking page.
type SeatMapResponse struct {
	ShowID         string `json:"show_id"`
	TotalSeats     int    `json:"total_seats"`
	BookedSeats    []int  `json:"booked_seats"`
	AvailableSeats []int  `json:"available_seats"`
}

// ShowToEntity maps the wire shape to the internal one. Missing booked seats
// become an empty list and a missing type becomes "show".
func ShowToEntity(s ShowResponse) entity.Show {
	showType := entity.ShowType(s.Type)
	if showType == "" {
		showType = entity.ShowTypeShow
	}

	return entity.Show{
		ID:          s.ID,
		Name:        s.Name,
		StartTime:   s.StartTime,
		TotalSeats:  s.TotalSeats,
		BookedSeats: append([]int{}, s.BookedSeats...),
		Price:       s.Price,
		Type:        showType,
	}
}

func ShowToResponse(s entity.Show) ShowResponse {
	return ShowResponse{
		ID:          s.ID,
		Name:        s.Name,
		StartTime:   s.StartTime,
		TotalSeats:  s.TotalSeats,
		BookedSeats: append([]int{}, s.BookedSeats...),
		Price:       s.Price,
		Type:        string(s.Type),
	}
}

func ShowsToResponse(shows []entity.Show) []ShowResponse {
	out := make([]ShowResponse, len(shows))
	for i, s := range shows {
		out[i] = ShowToResponse(s)
	}
	return out
}

// ShowToRemoteRequest builds the POST /admin/shows payload.
func ShowToRemoteRequest(s entity.Show) request.RemoteShowRequest {
	showType := string(s.Type)
	if showType == "" {
		showType = string(entity.ShowTypeShow)
	}
	return request.RemoteShowRequest{
		Name:       s.Name,
		StartTime:  s.StartTime.UTC().Format(time.RFC3339),
		TotalSeats: s.TotalSeats,
		Price:      s.Price,
		Type:       showType,
	}
}

func SeatMapToResponse(s entity.Show) SeatMapResponse {
	return SeatMapResponse{
		ShowID:         s.ID,
		TotalSeats:     s.TotalSeats,
		BookedSeats:    append([]int{}, s.BookedSeats...),
		AvailableSeats: s.AvailableSeats(),
	}
}
