package usecase

import (
	"context"
	"sync"
	"time"

	"ticketbook/internal/gateway"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

const defaultHealthInterval = 30 * time.Second

type StatusService interface {
	Check(ctx context.Context) bool
	Status() RemoteStatus
}

// RemoteStatus is the last health check result. Online is nil until the
// first check completes.
type RemoteStatus struct {
	Online        *bool
	LastCheckedAt time.Time
}

type StatusMonitor struct {
	gateway  gateway.Client
	interval time.Duration
	log      *zap.Logger

	mu     sync.RWMutex
	status RemoteStatus
}

func NewStatusMonitor(gw gateway.Client, config utils.RemoteConfig, log *zap.Logger) *StatusMonitor {
	interval := config.HealthInterval
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	return &StatusMonitor{
		gateway:  gw,
		interval: interval,
		log:      log.With(zap.String("service", "status")),
	}
}

// Check calls the remote health endpoint once and records the outcome.
func (s *StatusMonitor) Check(ctx context.Context) bool {
	err := s.gateway.Health(ctx)
	online := err == nil

	s.mu.Lock()
	changed := s.status.Online == nil || *s.status.Online != online
	s.status = RemoteStatus{Online: &online, LastCheckedAt: time.Now().UTC()}
	s.mu.Unlock()

	if changed {
		if online {
			s.log.Info("Remote service online")
		} else {
			s.log.Warn("Remote service offline", zap.Error(err))
		}
	}
	return online
}

func (s *StatusMonitor) Status() RemoteStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.status
	if out.Online != nil {
		online := *out.Online
		out.Online = &online
	}
	return out
}

// Run checks immediately and then on every interval until ctx is done.
func (s *StatusMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Check(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
