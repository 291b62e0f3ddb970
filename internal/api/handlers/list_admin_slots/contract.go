package list_admin_slots

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

type SlotService interface {
	ListAll(ctx context.Context, req *models.ListAllRequest) ([]*models.AdminSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
