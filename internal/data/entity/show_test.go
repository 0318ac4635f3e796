package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShow_WithSeatsBooked(t *testing.T) {
	show := Show{ID: "s1", TotalSeats: 10, BookedSeats: []int{3}}

	next := show.WithSeatsBooked([]int{3, 4, 5})

	assert.Equal(t, []int{3, 4, 5}, next.BookedSeats)
	assert.Equal(t, []int{3}, show.BookedSeats)
	assert.True(t, next.IsBooked(4))
	assert.False(t, show.IsBooked(4))
}

func TestShow_AvailableSeats(t *testing.T) {
	show := Show{TotalSeats: 4, BookedSeats: []int{1, 3}}
	assert.Equal(t, []int{2, 4}, show.AvailableSeats())

	assert.Empty(t, Show{TotalSeats: 2, BookedSeats: []int{1, 2}}.AvailableSeats())
}

func TestShow_WithSeatsBookedIgnoresUnknownSeats(t *testing.T) {
	show := Show{ID: "s1", TotalSeats: 3}

	next := show.WithSeatsBooked([]int{0, 2, 2, 4, -1})

	assert.Equal(t, []int{2}, next.BookedSeats)
}

func TestShow_AvailableSeatsOverbooked(t *testing.T) {
	show := Show{TotalSeats: 2, BookedSeats: []int{1, 2, 3, 3}}

	assert.NotPanics(t, func() {
		assert.Empty(t, show.AvailableSeats())
	})
}

func TestShow_HasSeat(t *testing.T) {
	show := Show{TotalSeats: 3}
	assert.True(t, show.HasSeat(1))
	assert.True(t, show.HasSeat(3))
	assert.False(t, show.HasSeat(0))
	assert.False(t, show.HasSeat(4))
}

func TestShow_CloneIsIndependent(t *testing.T) {
	show := Show{BookedSeats: []int{1}}
	clone := show.Clone()
	clone.BookedSeats[0] = 7

	assert.Equal(t, []int{1}, show.BookedSeats)
	assert.Equal(t, []int{}, Show{}.Clone().BookedSeats)
}
