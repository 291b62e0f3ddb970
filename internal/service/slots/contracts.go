package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	Get(ctx context.Context, id string) (*domain.Slot, error)
	Put(ctx context.Context, slot *domain.Slot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Slot, error)
	Ping(ctx context.Context) error
}

// IDGenerator генерирует идентификаторы новых слотов
type IDGenerator func() string

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider, возвращающая реальное время
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Metrics интерфейс для учета операций со слотами
type Metrics interface {
	ObserveTransition(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
