package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
)

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

// Handle GET /api/booking?action=slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListOpen(r.Context())
	if err != nil {
		h.logger.Error("GET action=slots - Failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET action=slots - Returned %d open slots", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
