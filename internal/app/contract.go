package app

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
)

// SlotStore общий контракт всех реализаций хранилища слотов
type SlotStore interface {
	Get(ctx context.Context, id string) (*domain.Slot, error)
	Put(ctx context.Context, slot *domain.Slot) error
	PutIf(ctx context.Context, slot *domain.Slot, cond domain.SlotCondition) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Slot, error)
	Ping(ctx context.Context) error
}

// Dispatcher отправитель уведомлений с корректным завершением
type Dispatcher interface {
	Dispatch(ctx context.Context, n notifications.Notification)
	Close(ctx context.Context) error
}

// Logger интерфейс логгера, общий для всех слоев
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
