package response

import (
	"testing"
	"time"

	"ticketbook/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestShowToEntity_Defaults(t *testing.T) {
	start := time.Date(2030, 5, 1, 18, 30, 0, 0, time.UTC)

	show := ShowToEntity(ShowResponse{ID: "s1", Name: "Matinee", StartTime: start, TotalSeats: 10, Price: 12})

	assert.Equal(t, entity.ShowTypeShow, show.Type)
	assert.NotNil(t, show.BookedSeats)
	assert.Empty(t, show.BookedSeats)
	assert.Equal(t, start, show.StartTime)
}

func TestShowRoundTrip(t *testing.T) {
	original := ShowResponse{
		ID:          "s2",
		Name:        "Coast",
		StartTime:   time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC),
		TotalSeats:  30,
		BookedSeats: []int{4, 1},
		Price:       9.5,
		Type:        "trip",
	}

	assert.Equal(t, original, ShowToResponse(ShowToEntity(original)))

	req := ShowToRemoteRequest(ShowToEntity(original))
	assert.Equal(t, "2030-06-01T08:00:00Z", req.StartTime)
	assert.Equal(t, "trip", req.Type)
}

func TestShowToRemoteRequest_NormalizesZone(t *testing.T) {
	zone := time.FixedZone("WIB", 7*60*60)
	req := ShowToRemoteRequest(entity.Show{Name: "A", StartTime: time.Date(2030, 1, 1, 10, 0, 0, 0, zone), TotalSeats: 1})

	assert.Equal(t, "2030-01-01T03:00:00Z", req.StartTime)
	assert.Equal(t, "show", req.Type)
}

func TestBookingRoundTrip(t *testing.T) {
	original := BookingResponse{
		ID:          "b1",
		ShowID:      "s1",
		UserID:      "u1",
		Seats:       []int{3, 4},
		Status:      "pending",
		TotalAmount: 40,
		CreatedAt:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	booking := BookingToEntity(original)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, original, BookingToResponse(booking))

	remote := BookingToRemoteRequest(booking)
	assert.Equal(t, "s1", remote.ShowID)
	assert.Equal(t, []int{3, 4}, remote.Seats)
}

func TestSeatMapToResponse(t *testing.T) {
	seatMap := SeatMapToResponse(entity.Show{ID: "s1", TotalSeats: 5, BookedSeats: []int{2, 4}})

	assert.Equal(t, []int{1, 3, 5}, seatMap.AvailableSeats)
	assert.Equal(t, []int{2, 4}, seatMap.BookedSeats)
}
