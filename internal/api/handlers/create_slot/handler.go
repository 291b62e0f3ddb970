package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnauthorized       = "unauthorized"
	msgMissingFields      = "date, time and duration are required"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid time, expected HH:MM"
	msgInvalidDuration    = "invalid duration, allowed values: 25, 30, 45, 60, 90, 120"
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

// Handle POST /api/booking?action=create-slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authorized := middleware.IsAdmin(r.Context())
	if !authorized {
		h.logger.Warn("POST action=create-slot - Unauthorized request from ip=%s", middleware.ClientIP(r))
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST action=create-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(authorized)
	if err != nil {
		h.logger.Warn("POST action=create-slot - Invalid duration: %s", string(req.Duration))
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	created, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgUnauthorized)
		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingFields)
		case errors.Is(err, slots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)
		case errors.Is(err, slots.ErrInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		case errors.Is(err, slots.ErrInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)
		default:
			h.logger.Error("POST action=create-slot - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST action=create-slot - Slot created: id=%s, date=%s, time=%s", created.ID, created.Date, created.Time)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
