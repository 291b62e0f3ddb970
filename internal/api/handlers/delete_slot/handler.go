package delete_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnauthorized       = "unauthorized"
	msgMissingID          = "slot id is required"
)

// DeleteSlotRequest HTTP request model
type DeleteSlotRequest struct {
	ID string `json:"id"`
}

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

// Handle POST /api/booking?action=delete-slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authorized := middleware.IsAdmin(r.Context())
	if !authorized {
		h.logger.Warn("POST action=delete-slot - Unauthorized request from ip=%s", middleware.ClientIP(r))
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req DeleteSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST action=delete-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Delete(r.Context(), &models.DeleteSlotRequest{Authorized: authorized, ID: req.ID})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgUnauthorized)
		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingID)
		default:
			h.logger.Error("POST action=delete-slot - Failed to delete slot id=%s: %v", req.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST action=delete-slot - Slot deleted: id=%s", req.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.SuccessResponse{Success: true})
}
