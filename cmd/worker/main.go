package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CoachBooking/internal/app"
	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

// Воркер доставки писем для notifications.mode = "queue":
// API ставит задачи в Redis, воркер отправляет их через настроенного провайдера.
func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CoachBooking notification worker...")

	redisOpt, err := app.AsynqRedisOpt(cfg.Redis)
	if err != nil {
		log.Fatal("Invalid redis configuration: %v", err)
	}

	deliverer, err := app.NewDeliverer(context.Background(), cfg, nil, log)
	if err != nil {
		log.Fatal("Failed to initialize email delivery: %v", err)
	}

	workers := cfg.Notifications.Workers
	if workers <= 0 {
		workers = 1
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     workers,
		Queues:          map[string]int{notifications.QueueName: 1},
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
		Logger:          log.Zap().Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.Handle(notifications.TypeSendNotification, notifications.NewQueueHandler(deliverer, log))

	if err := srv.Start(mux); err != nil {
		log.Fatal("Worker failed to start: %v", err)
	}
	log.Info("Worker listening on queue %q (concurrency=%d)", notifications.QueueName, workers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	srv.Shutdown()
	log.Info("Worker stopped gracefully")
}
