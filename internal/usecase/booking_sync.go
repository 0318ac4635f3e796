package usecase

import (
	"context"
	"fmt"
	"slices"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/gateway"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

func (m *BookingManager) pendingShow(show entity.Show) entity.PendingSync {
	s := show.Clone()
	return entity.PendingSync{
		ID:        utils.GenerateSyncID(),
		Kind:      entity.SyncKindShow,
		LocalID:   show.ID,
		Show:      &s,
		CreatedAt: m.now().UTC(),
	}
}

func (m *BookingManager) pendingBooking(booking entity.Booking) entity.PendingSync {
	b := booking.Clone()
	return entity.PendingSync{
		ID:        utils.GenerateSyncID(),
		Kind:      entity.SyncKindBooking,
		LocalID:   booking.ID,
		Booking:   &b,
		CreatedAt: m.now().UTC(),
	}
}

// PendingSignal fires after a record is queued for the remote service.
func (m *BookingManager) PendingSignal() <-chan struct{} {
	return m.wake
}

func (m *BookingManager) signalPending() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// PendingHead returns the oldest unsynced entry.
func (m *BookingManager) PendingHead() (entity.PendingSync, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.pending) == 0 {
		return entity.PendingSync{}, false
	}
	return clonePending(m.pending[0]), true
}

// ApplyRemoteShow swaps the local show for the one the remote service
// created. Seats booked locally in the meantime are kept, and the local id is
// rewritten in bookings and in the rest of the pending log.
func (m *BookingManager) ApplyRemoteShow(ctx context.Context, entry entity.PendingSync, remote response.ShowResponse) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	shows, bookings, pending := m.shows, m.bookings, m.pending
	m.mu.RUnlock()

	change := stateChange{pending: withoutEntry(pending, entry.ID)}

	idx := slices.IndexFunc(shows, func(s entity.Show) bool { return s.ID == entry.LocalID })
	if idx < 0 {
		m.log.Info("Synced show no longer present locally", zap.String("show_id", entry.LocalID))
		return m.commit(ctx, change)
	}

	synced := response.ShowToEntity(remote).WithSeatsBooked(shows[idx].BookedSeats)
	nextShows := slices.Clone(shows)
	nextShows[idx] = synced
	change.shows = nextShows

	if synced.ID != entry.LocalID {
		change.bookings = remapBookings(bookings, entry.LocalID, synced.ID)
		for i, p := range change.pending {
			if p.Kind == entity.SyncKindBooking && p.Booking != nil && p.Booking.ShowID == entry.LocalID {
				p = clonePending(p)
				p.Booking.ShowID = synced.ID
				change.pending[i] = p
			}
		}
	}

	if err := m.commit(ctx, change); err != nil {
		return fmt.Errorf("apply synced show %s: %w", entry.LocalID, err)
	}

	m.log.Info("Show synced",
		zap.String("local_id", entry.LocalID),
		zap.String("remote_id", synced.ID),
	)
	return nil
}

// ApplyRemoteBooking replaces the local booking with the remote one and
// adopts its status. A remote booking holding seats the show does not have
// is rejected with gateway.ErrInvalidResponse and nothing is stored.
func (m *BookingManager) ApplyRemoteBooking(ctx context.Context, entry entity.PendingSync, remote response.BookingResponse) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	shows, bookings, pending := m.shows, m.bookings, m.pending
	m.mu.RUnlock()

	change := stateChange{pending: withoutEntry(pending, entry.ID)}

	idx := slices.IndexFunc(bookings, func(b entity.Booking) bool { return b.ID == entry.LocalID })
	if idx < 0 {
		m.log.Info("Synced booking no longer present locally", zap.String("booking_id", entry.LocalID))
		return m.commit(ctx, change)
	}

	synced := response.BookingToEntity(remote)
	nextBookings := slices.Clone(bookings)
	nextBookings[idx] = synced
	change.bookings = nextBookings

	if si := slices.IndexFunc(shows, func(s entity.Show) bool { return s.ID == synced.ShowID }); si >= 0 {
		for _, seat := range synced.Seats {
			if !shows[si].HasSeat(seat) {
				return fmt.Errorf("synced booking %s seat %d outside show %s: %w",
					synced.ID, seat, synced.ShowID, gateway.ErrInvalidResponse)
			}
		}
		nextShows := slices.Clone(shows)
		nextShows[si] = shows[si].WithSeatsBooked(synced.Seats)
		change.shows = nextShows
	}

	if err := m.commit(ctx, change); err != nil {
		return fmt.Errorf("apply synced booking %s: %w", entry.LocalID, err)
	}

	m.log.Info("Booking synced",
		zap.String("local_id", entry.LocalID),
		zap.String("remote_id", synced.ID),
		zap.String("status", string(synced.Status)),
	)
	return nil
}

// MarkPendingFailed records a failed attempt on entry. With drop set the entry
// leaves the log; the local record itself is kept.
func (m *BookingManager) MarkPendingFailed(ctx context.Context, entry entity.PendingSync, cause error, drop bool) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	pending := m.pending
	m.mu.RUnlock()

	idx := slices.IndexFunc(pending, func(p entity.PendingSync) bool { return p.ID == entry.ID })
	if idx < 0 {
		return nil
	}

	var next []entity.PendingSync
	if drop {
		next = withoutEntry(pending, entry.ID)
	} else {
		next = slices.Clone(pending)
		updated := clonePending(pending[idx])
		updated.Attempts++
		updated.LastError = cause.Error()
		next[idx] = updated
	}

	if err := m.commit(ctx, stateChange{pending: next}); err != nil {
		return fmt.Errorf("update pending sync %s: %w", entry.ID, err)
	}
	return nil
}

func withoutEntry(pending []entity.PendingSync, id string) []entity.PendingSync {
	out := make([]entity.PendingSync, 0, len(pending))
	for _, p := range pending {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func remapBookings(bookings []entity.Booking, from, to string) []entity.Booking {
	out := make([]entity.Booking, len(bookings))
	for i, b := range bookings {
		if b.ShowID == from {
			b = b.Clone()
			b.ShowID = to
		}
		out[i] = b
	}
	return out
}

func clonePending(p entity.PendingSync) entity.PendingSync {
	if p.Show != nil {
		s := p.Show.Clone()
		p.Show = &s
	}
	if p.Booking != nil {
		b := p.Booking.Clone()
		p.Booking = &b
	}
	return p
}
