package list_slots

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

type SlotService interface {
	ListOpen(ctx context.Context) ([]models.PublicSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
