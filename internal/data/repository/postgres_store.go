package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketbook/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS client_snapshots (
		client_id  TEXT        NOT NULL,
		slot       TEXT        NOT NULL,
		payload    BYTEA       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (client_id, slot)
	)
`

type postgresStore struct {
	db       database.PgxIface
	clientID string
	log      *zap.Logger
}

func NewPostgresStore(db database.PgxIface, clientID string, log *zap.Logger) SnapshotStore {
	return &postgresStore{
		db:       db,
		clientID: clientID,
		log:      log.With(zap.String("repository", "postgres_snapshot")),
	}
}

// InitializeSchema creates the snapshot table when missing.
func InitializeSchema(ctx context.Context, db database.PgxIface) error {
	if _, err := db.Exec(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("create client_snapshots table: %w", err)
	}
	return nil
}

func (s *postgresStore) Save(ctx context.Context, slot string, payload []byte) error {
	query := `
		INSERT INTO client_snapshots (client_id, slot, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, slot)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.Exec(ctx, query, s.clientID, slot, payload, time.Now().UTC())
	if err != nil {
		s.log.Error("Failed to save snapshot",
			zap.Error(err),
			zap.String("client_id", s.clientID),
			zap.String("slot", slot),
		)
		return fmt.Errorf("save slot %s: %w", slot, err)
	}

	return nil
}

func (s *postgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	query := `
		SELECT payload
		FROM client_snapshots
		WHERE client_id = $1 AND slot = $2
	`

	var payload []byte
	err := s.db.QueryRow(ctx, query, s.clientID, slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to load snapshot",
			zap.Error(err),
			zap.String("client_id", s.clientID),
			zap.String("slot", slot),
		)
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}

	return payload, nil
}
