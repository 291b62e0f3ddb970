package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

type Checker interface {
	Health(ctx context.Context) error
}

type Logger interface {
	Error(format string, v ...interface{})
}

type Response struct {
	Status string `json:"status"`
}

type Handler struct {
	checker Checker
	logger  Logger
}

func NewHandler(checker Checker, logger Logger) *Handler {
	return &Handler{
		checker: checker,
		logger:  logger,
	}
}

// Handle GET /healthz
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.checker.Health(ctx); err != nil {
		h.logger.Error("GET /healthz - Store unavailable: %v", err)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, Response{Status: "unavailable"})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok"})
}
