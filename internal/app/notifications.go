package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/internal/integrations/email"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
	"github.com/m04kA/SMC-CoachBooking/pkg/metrics"
)

// NewSender создает почтового провайдера по email.provider
func NewSender(ctx context.Context, cfg *config.Config, log Logger) (email.Sender, error) {
	from := email.From{Email: cfg.Email.FromEmail, Name: cfg.Email.FromName}

	switch cfg.Email.Provider {
	case config.ProviderStub:
		return email.NewStubSender(log), nil
	case config.ProviderSendGrid:
		return email.NewSendGridSender(cfg.Email.SendGridAPIKey, from, log), nil
	case config.ProviderSES:
		awsCfg, err := LoadAWSConfig(ctx, SESAWSOptions(cfg))
		if err != nil {
			return nil, err
		}
		client := sesv2.NewFromConfig(awsCfg)
		return email.NewSESSender(client, from, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown email provider %q", config.ErrInvalidConfig, cfg.Email.Provider)
	}
}

// NewDeliverer собирает композитор писем и провайдера
func NewDeliverer(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log Logger) (*notifications.Deliverer, error) {
	sender, err := NewSender(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Notifications.Timeout) * time.Second
	return notifications.NewDeliverer(notifications.NewComposer(cfg.Email.CoachEmail), sender, m, log, timeout), nil
}

// newDispatcher выбирает способ доставки по notifications.mode
func newDispatcher(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log Logger) (Dispatcher, func() error, error) {
	noop := func() error { return nil }

	if cfg.Notifications.Mode == config.ModeQueue {
		opt, err := AsynqRedisOpt(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		client := asynq.NewClient(opt)
		log.Info("Notifications: queue mode, tasks go to queue=%s", notifications.QueueName)
		return notifications.NewQueueDispatcher(client, m, log), client.Close, nil
	}

	deliverer, err := NewDeliverer(ctx, cfg, m, log)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Notifications.Mode {
	case config.ModeInline:
		log.Info("Notifications: inline mode, provider=%s", cfg.Email.Provider)
		return notifications.NewInlineDispatcher(deliverer, log), noop, nil
	case config.ModeAsync:
		log.Info("Notifications: async mode, workers=%d, buffer=%d, provider=%s",
			cfg.Notifications.Workers, cfg.Notifications.Buffer, cfg.Email.Provider)
		return notifications.NewAsyncDispatcher(deliverer, m, log, cfg.Notifications.Workers, cfg.Notifications.Buffer), noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown notifications mode %q", config.ErrInvalidConfig, cfg.Notifications.Mode)
	}
}
