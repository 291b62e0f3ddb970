package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/m04kA/SMC-CoachBooking/internal/app"
	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	// Процесс Lambda замораживается после ответа: фоновые воркеры не успеют отправить письма
	if cfg.Notifications.Mode == config.ModeAsync {
		log.Warn("Lambda: notifications.mode=async is not supported, falling back to inline")
		cfg.Notifications.Mode = config.ModeInline
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to build application: %v", err)
	}

	log.Info("Lambda handler ready (storage=%s, notifications=%s)", cfg.Storage.Driver, cfg.Notifications.Mode)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return serve(ctx, application.Handler, evt)
	})
}
