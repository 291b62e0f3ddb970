package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Get(ctx context.Context, id string) (*domain.Slot, error)
	PutIf(ctx context.Context, slot *domain.Slot, cond domain.SlotCondition) error
}

// TokenIssuer интерфейс выдачи токенов подтверждения
type TokenIssuer interface {
	Issue(slotID string) string
}

// Dispatcher интерфейс отправки уведомлений; ошибки доставки обрабатывает сам диспетчер
type Dispatcher interface {
	Dispatch(ctx context.Context, n notifications.Notification)
}

// Metrics интерфейс метрик переходов слота
type Metrics interface {
	ObserveTransition(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
