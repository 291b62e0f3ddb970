package review_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CoachBooking/internal/service/notifications"
)

// UseCase use case решения коуча по заявке (approve/decline по ссылке из письма)
type UseCase struct {
	slotRepo   SlotRepository
	tokens     TokenValidator
	dispatcher Dispatcher
	metrics    Metrics
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	tokens TokenValidator,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:   slotRepo,
		tokens:     tokens,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute применяет решение к слоту.
// Ошибка возвращается только для некорректного решения и недоступности хранилища;
// неверные и повторные ссылки дают информационный Outcome.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Decision != DecisionApprove && req.Decision != DecisionDecline {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, req.Decision)
	}

	slotID := strings.TrimSpace(req.SlotID)
	token := strings.TrimSpace(req.Token)
	uc.logger.Info("ReviewBooking: decision=%s, slot=%s", req.Decision, slotID)

	if slotID == "" || token == "" {
		uc.logger.Warn("ReviewBooking: missing slot id or token")
		return uc.result(req.Decision, &Response{Outcome: OutcomeInvalidLink, SlotID: slotID}), nil
	}

	// 1. Получаем слот
	current, err := uc.slotRepo.Get(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("ReviewBooking: slot id=%s not found", slotID)
			return uc.result(req.Decision, &Response{Outcome: OutcomeNotFound, SlotID: slotID}), nil
		}
		uc.logger.Error("ReviewBooking: failed to get slot id=%s: %v", slotID, err)
		uc.observe(req.Decision, "error")
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 2. Проверяем токен; у завершенного слота токена уже нет
	if !uc.tokens.Validate(current, token) {
		outcome := uc.staleOutcome(req.Decision, current)
		uc.logger.Warn("ReviewBooking: token rejected for slot id=%s, status=%s, outcome=%s", slotID, current.Status, outcome)
		return uc.result(req.Decision, respond(outcome, current)), nil
	}

	// 3. Готовим переход на копии; заявку сохраняем для письма клиенту
	next := current.Clone()
	booking := current.Booking
	var (
		transitionErr error
		outcome       Outcome
		kind          notifications.Kind
	)
	switch req.Decision {
	case DecisionApprove:
		transitionErr = next.Confirm()
		outcome = OutcomeConfirmed
		kind = notifications.KindBookingConfirmed
	case DecisionDecline:
		transitionErr = next.Reopen()
		outcome = OutcomeDeclined
		kind = notifications.KindBookingDeclined
	}
	if transitionErr != nil {
		uc.logger.Error("ReviewBooking: transition failed for slot id=%s: %v", slotID, transitionErr)
		uc.observe(req.Decision, "error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, transitionErr)
	}

	// 4. Условная запись: слот все еще requested с этим же токеном
	err = uc.slotRepo.PutIf(ctx, next, domain.SlotCondition{
		Status:        domain.SlotStatusRequested,
		ApprovalToken: token,
	})
	if err != nil {
		return uc.handleWriteError(ctx, req.Decision, slotID, err)
	}

	uc.logger.Info("ReviewBooking: slot id=%s %s", slotID, outcome)

	// 5. Уведомляем клиента после фиксации
	uc.dispatcher.Dispatch(ctx, notifications.New(kind, next, booking))

	return uc.result(req.Decision, respond(outcome, next)), nil
}

// handleWriteError разбирает неудачную условную запись: слот мог быть
// подтвержден, отклонен или удален параллельным запросом
func (uc *UseCase) handleWriteError(ctx context.Context, decision Decision, slotID string, err error) (*Response, error) {
	switch {
	case errors.Is(err, slotRepo.ErrSlotNotFound):
		uc.logger.Warn("ReviewBooking: slot id=%s deleted concurrently", slotID)
		return uc.result(decision, &Response{Outcome: OutcomeNotFound, SlotID: slotID}), nil
	case errors.Is(err, slotRepo.ErrConflict):
		latest, getErr := uc.slotRepo.Get(ctx, slotID)
		if getErr != nil {
			if errors.Is(getErr, slotRepo.ErrSlotNotFound) {
				return uc.result(decision, &Response{Outcome: OutcomeNotFound, SlotID: slotID}), nil
			}
			uc.logger.Error("ReviewBooking: failed to re-read slot id=%s: %v", slotID, getErr)
			uc.observe(decision, "error")
			return nil, fmt.Errorf("%w: failed to re-read slot: %v", ErrInternal, getErr)
		}
		outcome := uc.staleOutcome(decision, latest)
		uc.logger.Warn("ReviewBooking: slot id=%s changed concurrently, outcome=%s", slotID, outcome)
		return uc.result(decision, respond(outcome, latest)), nil
	default:
		uc.logger.Error("ReviewBooking: failed to save slot id=%s: %v", slotID, err)
		uc.observe(decision, "error")
		return nil, fmt.Errorf("%w: failed to save slot: %v", ErrInternal, err)
	}
}

// staleOutcome результат для ссылки, которая уже не может изменить слот
func (uc *UseCase) staleOutcome(decision Decision, s *domain.Slot) Outcome {
	if decision == DecisionApprove && s.IsConfirmed() {
		return OutcomeAlreadyConfirmed
	}
	return OutcomeInvalidLink
}

func (uc *UseCase) result(decision Decision, resp *Response) *Response {
	uc.observe(decision, string(resp.Outcome))
	return resp
}

func (uc *UseCase) observe(decision Decision, outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveTransition(string(decision), outcome)
	}
}

func respond(outcome Outcome, s *domain.Slot) *Response {
	return &Response{
		Outcome: outcome,
		SlotID:  s.ID,
		Date:    s.Date,
		Time:    s.Time,
	}
}
