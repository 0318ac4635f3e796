package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ticketbook/internal/data/entity"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const envelopeVersion = 1

// ErrCorrupt marks a snapshot that could not be decoded or failed its checksum.
var ErrCorrupt = errors.New("corrupt snapshot")

// StateRepository persists the full shows, bookings and pending-sync
// collections. A corrupt slot loads as an empty collection.
type StateRepository interface {
	LoadShows(ctx context.Context) ([]entity.Show, error)
	SaveShows(ctx context.Context, shows []entity.Show) error
	LoadBookings(ctx context.Context) ([]entity.Booking, error)
	SaveBookings(ctx context.Context, bookings []entity.Booking) error
	LoadPending(ctx context.Context) ([]entity.PendingSync, error)
	SavePending(ctx context.Context, pending []entity.PendingSync) error
}

type envelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	SavedAt  time.Time       `json:"saved_at"`
	Payload  json.RawMessage `json:"payload"`
}

type stateRepository struct {
	store SnapshotStore
	log   *zap.Logger
}

func NewStateRepository(store SnapshotStore, log *zap.Logger) StateRepository {
	return &stateRepository{
		store: store,
		log:   log.With(zap.String("repository", "state")),
	}
}

func (r *stateRepository) LoadShows(ctx context.Context) ([]entity.Show, error) {
	return loadSlot[entity.Show](ctx, r, SlotShows)
}

func (r *stateRepository) SaveShows(ctx context.Context, shows []entity.Show) error {
	return saveSlot(ctx, r, SlotShows, shows)
}

func (r *stateRepository) LoadBookings(ctx context.Context) ([]entity.Booking, error) {
	return loadSlot[entity.Booking](ctx, r, SlotBookings)
}

func (r *stateRepository) SaveBookings(ctx context.Context, bookings []entity.Booking) error {
	return saveSlot(ctx, r, SlotBookings, bookings)
}

func (r *stateRepository) LoadPending(ctx context.Context) ([]entity.PendingSync, error) {
	return loadSlot[entity.PendingSync](ctx, r, SlotPendingSync)
}

func (r *stateRepository) SavePending(ctx context.Context, pending []entity.PendingSync) error {
	return saveSlot(ctx, r, SlotPendingSync, pending)
}

func saveSlot[T any](ctx context.Context, r *stateRepository, slot string, items []T) error {
	if items == nil {
		items = []T{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}

	raw, err := json.Marshal(envelope{
		Version:  envelopeVersion,
		Checksum: checksum(payload),
		SavedAt:  time.Now().UTC(),
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", slot, err)
	}

	return r.store.Save(ctx, slot, raw)
}

func loadSlot[T any](ctx context.Context, r *stateRepository, slot string) ([]T, error) {
	raw, err := r.store.Load(ctx, slot)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	items, err := decodeSlot[T](raw)
	if err != nil {
		r.log.Warn("Discarding unreadable snapshot",
			zap.Error(err),
			zap.String("slot", slot),
		)
		return []T{}, nil
	}

	return items, nil
}

func decodeSlot[T any](raw []byte) ([]T, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, env.Version)
	}
	if env.Checksum != checksum(env.Payload) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	var items []T
	if err := json.Unmarshal(env.Payload, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func checksum(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
