package repository

import (
	"context"
	"fmt"

	"ticketbook/pkg/database"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

type Repository struct {
	Store SnapshotStore
	State StateRepository

	closers []func()
}

// NewRepository opens the snapshot store selected by config.Storage.Driver.
func NewRepository(ctx context.Context, config *utils.Config, log *zap.Logger) (*Repository, error) {
	repo := &Repository{}

	switch config.Storage.Driver {
	case "postgres":
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := InitializeSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		repo.Store = NewPostgresStore(db, config.Storage.ClientID, log)
		repo.closers = append(repo.closers, db.Close)

	case "redis":
		client, err := database.InitRedis(ctx, config.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		repo.Store = NewRedisStore(client, config.Redis.Prefix, config.Storage.ClientID, log)
		repo.closers = append(repo.closers, func() { _ = client.Close() })

	case "memory":
		repo.Store = NewMemoryStore()

	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	repo.State = NewStateRepository(repo.Store, log)
	log.Info("Snapshot store ready",
		zap.String("driver", config.Storage.Driver),
		zap.String("client_id", config.Storage.ClientID),
	)

	return repo, nil
}

// NewRepositoryWithStore wraps an already opened store.
func NewRepositoryWithStore(store SnapshotStore, log *zap.Logger) *Repository {
	return &Repository{
		Store: store,
		State: NewStateRepository(store, log),
	}
}

func (r *Repository) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}
