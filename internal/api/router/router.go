package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	adminLoginHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/admin_login"
	bookSlotHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/book_slot"
	createSlotHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/delete_slot"
	healthHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/health"
	listAdminSlotsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_admin_slots"
	listSlotsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_slots"
	reviewBookingHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/review_booking"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
	reviewBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/review_booking"
)

const (
	// BookingPath единственная точка входа API сайта; действие выбирается параметром action
	BookingPath = "/api/booking"
	HealthPath  = "/healthz"

	msgUnknownAction = "unknown action"
	msgNotFound      = "not found"
)

// SlotService операции со слотами, нужные обработчикам
type SlotService interface {
	ListOpen(ctx context.Context) ([]models.PublicSlot, error)
	ListAll(ctx context.Context, req *models.ListAllRequest) ([]*models.AdminSlot, error)
	Create(ctx context.Context, req *models.CreateSlotRequest) (*models.AdminSlot, error)
	Delete(ctx context.Context, req *models.DeleteSlotRequest) error
	Health(ctx context.Context) error
}

// Authorizer проверка общего секрета админки
type Authorizer interface {
	CheckPassword(password string) bool
	CheckBearer(header string) bool
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Deps зависимости роутера. Metrics, MetricsHandler и Limiter необязательны.
type Deps struct {
	Slots          SlotService
	RequestBooking bookSlotHandler.RequestBookingUseCase
	ReviewBooking  reviewBookingHandler.ReviewBookingUseCase
	Auth           Authorizer
	Logger         Logger

	AllowedOrigins []string
	Metrics        middleware.HTTPMetrics
	MetricsPath    string
	MetricsHandler http.Handler
	Limiter        *middleware.RateLimiter
}

type action struct {
	name    string
	method  string
	handler http.Handler
}

// New собирает HTTP обработчик сервиса. CORS оборачивает весь роутер,
// поэтому заголовки есть и на ответах 400/404/405.
func New(deps Deps) http.Handler {
	log := deps.Logger
	admin := middleware.AdminAuth(deps.Auth)
	limited := func(h http.Handler) http.Handler {
		if deps.Limiter == nil {
			return h
		}
		return deps.Limiter.Middleware(h)
	}

	actions := []action{
		{"slots", http.MethodGet, http.HandlerFunc(listSlotsHandler.NewHandler(deps.Slots, log).Handle)},
		{"admin-slots", http.MethodGet, admin(http.HandlerFunc(listAdminSlotsHandler.NewHandler(deps.Slots, log).Handle))},
		{"approve", http.MethodGet, http.HandlerFunc(reviewBookingHandler.NewHandler(deps.ReviewBooking, reviewBooking.DecisionApprove, log).Handle)},
		{"decline", http.MethodGet, http.HandlerFunc(reviewBookingHandler.NewHandler(deps.ReviewBooking, reviewBooking.DecisionDecline, log).Handle)},
		{"admin-login", http.MethodPost, limited(http.HandlerFunc(adminLoginHandler.NewHandler(deps.Auth, log).Handle))},
		{"create-slot", http.MethodPost, admin(http.HandlerFunc(createSlotHandler.NewHandler(deps.Slots, log).Handle))},
		{"delete-slot", http.MethodPost, admin(http.HandlerFunc(deleteSlotHandler.NewHandler(deps.Slots, log).Handle))},
		{"book", http.MethodPost, limited(http.HandlerFunc(bookSlotHandler.NewHandler(deps.RequestBooking, log).Handle))},
	}

	r := mux.NewRouter()

	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	if deps.MetricsHandler != nil && deps.MetricsPath != "" {
		r.Handle(deps.MetricsPath, deps.MetricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc(HealthPath, healthHandler.NewHandler(deps.Slots, log).Handle).Methods(http.MethodGet)

	// /api/booking/ тоже обслуживается: часть прокси добавляет завершающий слэш
	for _, path := range []string{BookingPath, BookingPath + "/"} {
		for _, a := range actions {
			r.Handle(path, methodGuard(a.method, a.handler)).Queries("action", a.name)
		}
		r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
			log.Warn("%s %s - Unknown action=%q", req.Method, req.URL.Path, req.URL.Query().Get("action"))
			handlers.RespondBadRequest(w, msgUnknownAction)
		})
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondNotFound(w, msgNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondMethodNotAllowed(w)
	})

	return middleware.CORS(deps.AllowedOrigins)(r)
}

// methodGuard отвечает 405 на известное действие с неверным методом
func methodGuard(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			handlers.RespondMethodNotAllowed(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
