package slots

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/slots/models"
)

// Service сервис управления расписанием коуча: публичный список и админские операции
type Service struct {
	slotRepo     SlotRepository
	newID        IDGenerator
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		newID:        uuid.NewString,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithIDGenerator подменяет генератор идентификаторов (для тестов)
func (s *Service) WithIDGenerator(gen IDGenerator) *Service {
	s.newID = gen
	return s
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListOpen возвращает открытые слоты, отсортированные по дате и времени
func (s *Service) ListOpen(ctx context.Context) ([]models.PublicSlot, error) {
	all, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListOpen: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOpen - repository error: %v", ErrInternal, err)
	}

	open := make([]*domain.Slot, 0, len(all))
	for _, slot := range all {
		if slot.IsOpen() {
			open = append(open, slot)
		}
	}
	sortSlots(open)

	result := make([]models.PublicSlot, 0, len(open))
	for _, slot := range open {
		result = append(result, models.FromDomainPublicSlot(slot))
	}

	s.logger.Info("ListOpen: found %d open slots of %d", len(result), len(all))
	return result, nil
}

// ListAll возвращает все слоты с заявками (только для админа)
func (s *Service) ListAll(ctx context.Context, req *models.ListAllRequest) ([]*models.AdminSlot, error) {
	if !req.Authorized {
		s.logger.Warn("ListAll: unauthorized")
		return nil, ErrUnauthorized
	}

	all, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}
	sortSlots(all)

	result := make([]*models.AdminSlot, 0, len(all))
	for _, slot := range all {
		result = append(result, models.FromDomainAdminSlot(slot))
	}

	s.logger.Info("ListAll: returned %d slots", len(result))
	return result, nil
}

// Create создает открытый слот
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.AdminSlot, error) {
	if !req.Authorized {
		s.logger.Warn("Create: unauthorized")
		return nil, ErrUnauthorized
	}

	s.logger.Info("Create: date=%s, time=%s, duration=%d", req.Date, req.Time, req.Duration)

	date, clock, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		s.observe("create", "invalid")
		return nil, err
	}

	slot := domain.NewSlot(s.newID(), date, clock, req.Duration, s.timeProvider.Now())
	if err := s.slotRepo.Put(ctx, slot); err != nil {
		s.logger.Error("Create: failed to save slot id=%s: %v", slot.ID, err)
		s.observe("create", "error")
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: slot id=%s created", slot.ID)
	s.observe("create", "created")
	return models.FromDomainAdminSlot(slot), nil
}

// Delete удаляет слот в любом статусе. Удаление отсутствующего слота не ошибка.
func (s *Service) Delete(ctx context.Context, req *models.DeleteSlotRequest) error {
	if !req.Authorized {
		s.logger.Warn("Delete: unauthorized")
		return ErrUnauthorized
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	if err := s.slotRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Delete: failed to delete slot id=%s: %v", id, err)
		s.observe("delete", "error")
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: slot id=%s deleted", id)
	s.observe("delete", "deleted")
	return nil
}

// Health проверяет доступность хранилища
func (s *Service) Health(ctx context.Context) error {
	if err := s.slotRepo.Ping(ctx); err != nil {
		s.logger.Error("Health: store unavailable: %v", err)
		return fmt.Errorf("%w: Health - %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) observe(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(operation, outcome)
	}
}

// validateCreate проверяет формат даты, времени и длительности.
// Возвращает нормализованные дату и время (например, 9:05 -> 09:05).
func validateCreate(req *models.CreateSlotRequest) (string, string, error) {
	rawDate := strings.TrimSpace(req.Date)
	rawTime := strings.TrimSpace(req.Time)
	if rawDate == "" || rawTime == "" {
		return "", "", fmt.Errorf("%w: date and time are required", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDate, rawDate)
	}
	clock, err := time.Parse(domain.TimeFormat, rawTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidTime, rawTime)
	}
	if !domain.IsAllowedDuration(req.Duration) {
		return "", "", fmt.Errorf("%w: %d, allowed %v", ErrInvalidDuration, req.Duration, domain.AllowedDurations)
	}

	return date.Format(domain.DateFormat), clock.Format(domain.TimeFormat), nil
}

// sortSlots сортирует слоты по дате, затем по времени
func sortSlots(slots []*domain.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].Time != slots[j].Time {
			return slots[i].Time < slots[j].Time
		}
		return slots[i].ID < slots[j].ID
	})
}
