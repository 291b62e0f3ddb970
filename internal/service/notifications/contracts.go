package notifications

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/integrations/email"
)

// Logger интерфейс логгера сервиса уведомлений
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sender интерфейс почтового провайдера
type Sender interface {
	Send(ctx context.Context, msg email.Message) error
}

// Metrics интерфейс метрик уведомлений
type Metrics interface {
	ObserveNotification(kind, result string)
	SetQueueDepth(depth int)
}
