package usecase

import (
	"ticketbook/internal/data/repository"
	"ticketbook/internal/gateway"
	"ticketbook/internal/queue"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Status  StatusService

	Manager *BookingManager
	Monitor *StatusMonitor
	Sync    *SyncWorker
}

func NewService(repo *repository.Repository, gw gateway.Client, publisher queue.Publisher, config *utils.Config, log *zap.Logger) *Service {
	manager := NewBookingManager(repo.State, gw, publisher, config.Booking, log)
	monitor := NewStatusMonitor(gw, config.Remote, log)

	return &Service{
		Booking: manager,
		Status:  monitor,
		Manager: manager,
		Monitor: monitor,
		Sync:    NewSyncWorker(manager, gw, config.Sync, log),
	}
}
