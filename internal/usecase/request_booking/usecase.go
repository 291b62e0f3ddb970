package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
)

const operation = "book"

// UseCase use case заявки посетителя на открытый слот
type UseCase struct {
	slotRepo      SlotRepository
	issuer        TokenIssuer
	dispatcher    Dispatcher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
	publicBaseURL string
}

// NewUseCase создает новый экземпляр use case.
// publicBaseURL используется для ссылок approve/decline в письме коучу.
func NewUseCase(
	slotRepo SlotRepository,
	issuer TokenIssuer,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
	publicBaseURL string,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		issuer:        issuer,
		dispatcher:    dispatcher,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		publicBaseURL: publicBaseURL,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case заявки на слот.
// Запись выполняется условно (статус должен быть open), поэтому из двух
// одновременных заявок на один слот проходит ровно одна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: slot=%s", req.SlotID)

	// 1. Валидация входных данных
	form, err := normalizeRequest(req)
	if err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		uc.observe("invalid")
		return nil, err
	}

	// 2. Получаем слот
	current, err := uc.slotRepo.Get(ctx, form.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("RequestBooking: slot id=%s not found", form.SlotID)
			uc.observe("not_found")
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("RequestBooking: failed to get slot id=%s: %v", form.SlotID, err)
		uc.observe("error")
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Быстрая проверка статуса до выдачи токена
	if !current.IsOpen() {
		uc.logger.Warn("RequestBooking: slot id=%s is not open, status=%s", form.SlotID, current.Status)
		uc.observe("conflict")
		return nil, ErrSlotNotAvailable
	}

	// 4. Готовим переход open -> requested на копии
	next := current.Clone()
	token := uc.issuer.Issue(next.ID)
	if err := next.MarkRequested(form.toBooking(uc.timeProvider.Now()), token); err != nil {
		uc.logger.Error("RequestBooking: transition failed for slot id=%s: %v", next.ID, err)
		uc.observe("error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Условная запись: только если слот все еще open
	err = uc.slotRepo.PutIf(ctx, next, domain.SlotCondition{Status: domain.SlotStatusOpen})
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrConflict):
			uc.logger.Warn("RequestBooking: slot id=%s was taken concurrently", next.ID)
			uc.observe("conflict")
			return nil, ErrSlotNotAvailable
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			uc.logger.Warn("RequestBooking: slot id=%s deleted concurrently", next.ID)
			uc.observe("not_found")
			return nil, ErrSlotNotFound
		default:
			uc.logger.Error("RequestBooking: failed to save slot id=%s: %v", next.ID, err)
			uc.observe("error")
			return nil, fmt.Errorf("%w: failed to save slot: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("RequestBooking: slot id=%s requested by email=%s", next.ID, next.Booking.Email)
	uc.observe("requested")

	// 6. Уведомления после фиксации перехода; их ошибки не влияют на результат
	uc.dispatcher.Dispatch(ctx, notifications.New(notifications.KindApprovalRequest, next, next.Booking).
		WithReviewLinks(uc.publicBaseURL, token))
	uc.dispatcher.Dispatch(ctx, notifications.New(notifications.KindBookingReceived, next, next.Booking))

	return &Response{
		SlotID: next.ID,
		Date:   next.Date,
		Time:   next.Time,
		Status: string(next.Status),
	}, nil
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveTransition(operation, outcome)
	}
}
