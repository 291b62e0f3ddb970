package admin_login

import (
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidPassword    = "invalid password"
)

// PasswordChecker сравнивает пароль с общим секретом админки
type PasswordChecker interface {
	CheckPassword(password string) bool
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// LoginRequest HTTP request model
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse HTTP response model
type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	checker PasswordChecker
	logger  Logger
}

func NewHandler(checker PasswordChecker, logger Logger) *Handler {
	return &Handler{
		checker: checker,
		logger:  logger,
	}
}

// Handle POST /api/booking?action=admin-login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST action=admin-login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !h.checker.CheckPassword(req.Password) {
		h.logger.Warn("POST action=admin-login - Wrong password from ip=%s", middleware.ClientIP(r))
		handlers.RespondJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: msgInvalidPassword})
		return
	}

	h.logger.Info("POST action=admin-login - Admin logged in from ip=%s", middleware.ClientIP(r))
	handlers.RespondJSON(w, http.StatusOK, LoginResponse{Success: true})
}
