package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisStore struct {
	client   redis.Cmdable
	prefix   string
	clientID string
	log      *zap.Logger
}

// NewRedisStore keeps each slot under "<prefix>:<clientID>:<slot>" with no expiry.
func NewRedisStore(client redis.Cmdable, prefix, clientID string, log *zap.Logger) SnapshotStore {
	return &redisStore{
		client:   client,
		prefix:   prefix,
		clientID: clientID,
		log:      log.With(zap.String("repository", "redis_snapshot")),
	}
}

func (s *redisStore) key(slot string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.clientID, slot)
}

func (s *redisStore) Save(ctx context.Context, slot string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(slot), payload, 0).Err(); err != nil {
		s.log.Error("Failed to save snapshot",
			zap.Error(err),
			zap.String("key", s.key(slot)),
		)
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

func (s *redisStore) Load(ctx context.Context, slot string) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to load snapshot",
			zap.Error(err),
			zap.String("key", s.key(slot)),
		)
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return payload, nil
}
