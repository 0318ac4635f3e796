package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/gateway"
	"ticketbook/pkg/utils"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultSyncInterval    = 15 * time.Second
	defaultSyncMaxAttempts = 10
)

// errRetryLater stops a drain after a retryable failure.
var errRetryLater = errors.New("remote sync deferred")

// SyncWorker replays locally committed records to the remote service in the
// order they were created.
type SyncWorker struct {
	manager *BookingManager
	gateway gateway.Client
	config  utils.SyncConfig
	log     *zap.Logger
}

func NewSyncWorker(manager *BookingManager, gw gateway.Client, config utils.SyncConfig, log *zap.Logger) *SyncWorker {
	return &SyncWorker{
		manager: manager,
		gateway: gw,
		config:  config,
		log:     log.With(zap.String("service", "sync")),
	}
}

// Run drains the pending log on every tick and whenever a record is queued.
// After a retryable failure it waits out an exponential backoff first.
func (w *SyncWorker) Run(ctx context.Context) error {
	b := w.newBackOff()

	interval := w.config.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("Sync worker started", zap.Duration("interval", interval))

	for {
		err := w.Drain(ctx)
		if ctx.Err() != nil {
			w.log.Info("Sync worker stopped")
			return nil
		}

		if err != nil {
			delay := b.NextBackOff()
			w.log.Debug("Sync deferred", zap.Error(err), zap.Duration("retry_in", delay))
			if !sleep(ctx, delay) {
				w.log.Info("Sync worker stopped")
				return nil
			}
			continue
		}
		b.Reset()

		select {
		case <-ctx.Done():
			w.log.Info("Sync worker stopped")
			return nil
		case <-ticker.C:
		case <-w.manager.PendingSignal():
		}
	}
}

// Drain pushes pending entries until the log is empty or a retryable failure
// occurs, in which case errRetryLater is returned wrapped.
func (w *SyncWorker) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, ok := w.manager.PendingHead()
		if !ok {
			return nil
		}

		pushErr := w.push(ctx, entry)
		if pushErr == nil {
			continue
		}

		var applyErr *applyError
		if errors.As(pushErr, &applyErr) {
			w.log.Error("Failed to store synced record", zap.Error(pushErr), zap.String("entry_id", entry.ID))
			return fmt.Errorf("%w: %w", errRetryLater, pushErr)
		}

		drop := gateway.IsPermanent(pushErr) || entry.Attempts+1 >= w.maxAttempts()
		if drop {
			w.log.Error("Dropping unsyncable record",
				zap.Error(pushErr),
				zap.String("kind", string(entry.Kind)),
				zap.String("local_id", entry.LocalID),
				zap.Int("attempts", entry.Attempts+1),
			)
		}

		if err := w.manager.MarkPendingFailed(ctx, entry, pushErr, drop); err != nil {
			w.log.Error("Failed to update pending sync", zap.Error(err), zap.String("entry_id", entry.ID))
			return fmt.Errorf("%w: %w", errRetryLater, err)
		}
		if !drop {
			return fmt.Errorf("%w: %w", errRetryLater, pushErr)
		}
	}
}

type applyError struct{ err error }

func (e *applyError) Error() string { return e.err.Error() }
func (e *applyError) Unwrap() error { return e.err }

func (w *SyncWorker) push(ctx context.Context, entry entity.PendingSync) error {
	switch entry.Kind {
	case entity.SyncKindShow:
		if entry.Show == nil {
			return fmt.Errorf("pending show %s: %w", entry.ID, gateway.ErrInvalidResponse)
		}
		remote, err := w.gateway.CreateShow(ctx, response.ShowToRemoteRequest(*entry.Show))
		if err != nil {
			return err
		}
		if err := w.manager.ApplyRemoteShow(ctx, entry, *remote); err != nil {
			return &applyError{err}
		}

	case entity.SyncKindBooking:
		if entry.Booking == nil {
			return fmt.Errorf("pending booking %s: %w", entry.ID, gateway.ErrInvalidResponse)
		}
		remote, err := w.gateway.CreateBooking(ctx, response.BookingToRemoteRequest(*entry.Booking))
		if err != nil {
			return err
		}
		if err := w.manager.ApplyRemoteBooking(ctx, entry, *remote); err != nil {
			if errors.Is(err, gateway.ErrInvalidResponse) {
				return err
			}
			return &applyError{err}
		}

	default:
		return fmt.Errorf("pending kind %q: %w", entry.Kind, gateway.ErrInvalidResponse)
	}
	return nil
}

func (w *SyncWorker) maxAttempts() int {
	if w.config.MaxAttempts <= 0 {
		return defaultSyncMaxAttempts
	}
	return w.config.MaxAttempts
}

func (w *SyncWorker) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if w.config.InitialInterval > 0 {
		b.InitialInterval = w.config.InitialInterval
	}
	if w.config.MaxInterval > 0 {
		b.MaxInterval = w.config.MaxInterval
	}
	if w.config.Multiplier > 0 {
		b.Multiplier = w.config.Multiplier
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
