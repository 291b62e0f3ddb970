package review_booking

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Get(ctx context.Context, id string) (*domain.Slot, error)
	PutIf(ctx context.Context, slot *domain.Slot, cond domain.SlotCondition) error
}

// TokenValidator интерфейс проверки токена подтверждения
type TokenValidator interface {
	Validate(slot *domain.Slot, supplied string) bool
}

// Dispatcher интерфейс отправки уведомлений
type Dispatcher interface {
	Dispatch(ctx context.Context, n notifications.Notification)
}

// Metrics интерфейс метрик переходов слота
type Metrics interface {
	ObserveTransition(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
