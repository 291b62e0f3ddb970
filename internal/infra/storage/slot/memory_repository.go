package slot

import (
	"context"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// MemoryRepository хранит слоты в памяти процесса.
// Записи хранятся в сериализованном виде, чтобы повторять поведение внешних хранилищ.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRepository создает пустое in-memory хранилище слотов
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string][]byte)}
}

// Get возвращает слот по ID
func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.Slot, error) {
	r.mu.RLock()
	data, ok := r.records[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrSlotNotFound, id)
	}
	return decodeSlot(data)
}

// Put полностью перезаписывает слот
func (r *MemoryRepository) Put(ctx context.Context, s *domain.Slot) error {
	data, err := encodeSlot(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.records[s.ID] = data
	r.mu.Unlock()
	return nil
}

// PutIf перезаписывает слот, только если текущая запись удовлетворяет условию
func (r *MemoryRepository) PutIf(ctx context.Context, s *domain.Slot, cond domain.SlotCondition) error {
	data, err := encodeSlot(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.records[s.ID]
	if !ok {
		return fmt.Errorf("%w: id=%s", ErrSlotNotFound, s.ID)
	}
	current, err := decodeSlot(raw)
	if err != nil {
		return err
	}
	if !cond.Matches(current) {
		return fmt.Errorf("%w: id=%s, status=%s", ErrConflict, s.ID, current.Status)
	}

	r.records[s.ID] = data
	return nil
}

// Delete удаляет слот. Отсутствие слота не является ошибкой
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.records, id)
	r.mu.Unlock()
	return nil
}

// List возвращает все слоты в произвольном порядке
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*domain.Slot, 0, len(r.records))
	for _, data := range r.records {
		s, err := decodeSlot(data)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// Ping всегда успешен
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}
