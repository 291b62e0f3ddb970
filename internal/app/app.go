package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/api/router"
	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/internal/service/adminauth"
	"github.com/m04kA/SMC-CoachBooking/internal/service/approval"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots"
	requestBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/request_booking"
	reviewBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/review_booking"
	"github.com/m04kA/SMC-CoachBooking/pkg/metrics"
)

// App собранный сервис: HTTP обработчик и ресурсы, которые нужно закрыть.
// Используется и HTTP сервером (cmd), и Lambda (cmd/lambda).
type App struct {
	Handler http.Handler
	Metrics *metrics.Metrics
	Store   SlotStore

	dispatcher Dispatcher
	closers    []func() error
	log        Logger
}

// New собирает зависимости по конфигурации
func New(ctx context.Context, cfg *config.Config, log Logger) (*App, error) {
	a := &App{log: log}

	// Метрики (если включены) пишутся в собственный реестр
	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.ServiceName, reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	a.Metrics = m

	// Хранилище
	store, closeStore, err := newSlotStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, closeStore)

	// Уведомления
	dispatcher, closeDispatcher, err := newDispatcher(ctx, cfg, m, log)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.dispatcher = dispatcher
	a.closers = append(a.closers, closeDispatcher)

	// Сервисы и use cases
	authorizer := adminauth.NewAuthorizer(cfg.Admin.Password)
	if !authorizer.Enabled() {
		log.Warn("Admin password is not set, admin actions are disabled")
	}
	issuer := approval.NewIssuer()

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log).
		WithTrustedProxies(trustedProxies)

	slotService := slots.NewService(store, m, log)
	requestBookingUseCase := requestBooking.NewUseCase(store, issuer, dispatcher, m, log, cfg.Site.PublicBaseURL)
	reviewBookingUseCase := reviewBooking.NewUseCase(store, issuer, dispatcher, m, log)

	deps := router.Deps{
		Slots:          slotService,
		RequestBooking: requestBookingUseCase,
		ReviewBooking:  reviewBookingUseCase,
		Auth:           authorizer,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        limiter,
	}
	if m != nil {
		deps.Metrics = m
		deps.MetricsPath = cfg.Metrics.Path
		deps.MetricsHandler = metricsHandler
	}
	a.Handler = router.New(deps)

	return a, nil
}

// Close дожидается отправки уведомлений и закрывает соединения в обратном порядке
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.dispatcher = nil
	return errors.Join(errs...)
}
