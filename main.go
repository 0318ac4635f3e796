package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticketbook/cmd"
	"ticketbook/internal/data/repository"
	"ticketbook/internal/gateway"
	"ticketbook/internal/queue"
	"ticketbook/internal/usecase"
	"ticketbook/internal/wire"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("storage", config.Storage.Driver),
		zap.String("remote", config.Remote.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.NewRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer repo.Close()

	gw := gateway.NewClient(config.Remote, logger)
	publisher := queue.NewPublisher(config.Broker, logger)

	service := usecase.NewService(repo, gw, publisher, config, logger)
	service.Manager.Initialize(ctx)

	app := wire.Wiring(service, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return service.Sync.Run(ctx) })
	g.Go(func() error { return service.Monitor.Run(ctx) })
	g.Go(func() error { return cmd.APIServer(ctx, app.Router, config.App.Port, logger) })

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}
	logger.Info("Application stopped")
}
