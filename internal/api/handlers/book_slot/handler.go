package book_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	requestBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/request_booking"
)

const (
	msgBookingReceived    = "booking request received, you will get a confirmation by email"
	msgInvalidRequestBody = "invalid request body"
	msgMissingSlotID      = "please choose a slot"
	msgInvalidName        = "please enter your name"
	msgInvalidEmail       = "please enter a valid email address"
	msgInvalidPhone       = "please enter your phone number"
	msgMessageTooLong     = "message is too long"
	msgInvalidContact     = "invalid contact preference"
	msgSlotNotFound       = "slot not found"
	msgSlotNotAvailable   = "slot no longer available"
	msgBookingFailed      = "booking failed, please try again later"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/booking?action=book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST action=book - Invalid request body: %v", err)
		fail(w, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST action=book - Slot not available: slot_id=%s", req.SlotID)
			fail(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, requestBooking.ErrSlotNotFound):
			h.logger.Warn("POST action=book - Slot not found: slot_id=%s", req.SlotID)
			fail(w, http.StatusNotFound, msgSlotNotFound)

		case errors.Is(err, requestBooking.ErrMissingSlotID):
			fail(w, http.StatusBadRequest, msgMissingSlotID)
		case errors.Is(err, requestBooking.ErrInvalidName):
			fail(w, http.StatusBadRequest, msgInvalidName)
		case errors.Is(err, requestBooking.ErrInvalidEmail):
			fail(w, http.StatusBadRequest, msgInvalidEmail)
		case errors.Is(err, requestBooking.ErrInvalidPhone):
			fail(w, http.StatusBadRequest, msgInvalidPhone)
		case errors.Is(err, requestBooking.ErrMessageTooLong):
			fail(w, http.StatusBadRequest, msgMessageTooLong)
		case errors.Is(err, requestBooking.ErrInvalidContactPreference):
			fail(w, http.StatusBadRequest, msgInvalidContact)

		default:
			h.logger.Error("POST action=book - Failed to book slot: slot_id=%s, error=%v", req.SlotID, err)
			fail(w, http.StatusInternalServerError, msgBookingFailed)
		}
		return
	}

	h.logger.Info("POST action=book - Booking requested: slot_id=%s, date=%s, time=%s", result.SlotID, result.Date, result.Time)
	handlers.RespondJSON(w, http.StatusOK, BookResponse{Success: true, Message: msgBookingReceived})
}

// fail отвечает в формате формы записи: {success:false, message}
func fail(w http.ResponseWriter, status int, message string) {
	handlers.RespondJSON(w, status, BookResponse{Success: false, Message: message})
}
