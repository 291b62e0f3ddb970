package review_booking

import (
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	reviewBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/review_booking"
)

// Handler обрабатывает ссылку approve или decline из письма коучу.
// Отвечает HTML страницей, так как ссылку открывают из почтового клиента.
type Handler struct {
	useCase  ReviewBookingUseCase
	decision reviewBooking.Decision
	logger   Logger
}

func NewHandler(useCase ReviewBookingUseCase, decision reviewBooking.Decision, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		decision: decision,
		logger:   logger,
	}
}

// Handle GET /api/booking?action=approve|decline&slotId=...&token=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &reviewBooking.Request{
		SlotID:   query.Get("slotId"),
		Token:    query.Get("token"),
		Decision: h.decision,
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("GET action=%s - Failed to review booking: slot_id=%s, error=%v", h.decision, req.SlotID, err)
		handlers.RespondHTML(w, http.StatusInternalServerError, render(errorPage))
		return
	}

	status, p := pageFor(result)
	h.logger.Info("GET action=%s - slot_id=%s, outcome=%s", h.decision, req.SlotID, result.Outcome)
	handlers.RespondHTML(w, status, render(p))
}
