package repository

import (
	"context"
	"fmt"
	"sync"
)

// Slot names of the persisted collections.
const (
	SlotShows       = "booking_shows_data"
	SlotBookings    = "booking_bookings_data"
	SlotPendingSync = "booking_pending_sync"
)

// SnapshotStore is a durable key/value mirror scoped to one client.
// Load returns nil, nil when the slot has never been written.
type SnapshotStore interface {
	Save(ctx context.Context, slot string, payload []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore keeps snapshots in process memory. Nothing survives a restart.
func NewMemoryStore() SnapshotStore {
	return &memoryStore{slots: make(map[string][]byte)}
}

func (s *memoryStore) Save(ctx context.Context, slot string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = append([]byte(nil), payload...)
	return nil
}

func (s *memoryStore) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}
