package list_admin_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

const msgUnauthorized = "unauthorized"

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/booking?action=admin-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListAll(r.Context(), &models.ListAllRequest{
		Authorized: middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrUnauthorized):
			h.logger.Warn("GET action=admin-slots - Unauthorized request from ip=%s", middleware.ClientIP(r))
			handlers.RespondUnauthorized(w, msgUnauthorized)
		default:
			h.logger.Error("GET action=admin-slots - Failed to list slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET action=admin-slots - Returned %d slots", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
