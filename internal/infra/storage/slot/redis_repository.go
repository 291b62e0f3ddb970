package slot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

const (
	// DefaultKeyPrefix пространство ключей слотов, совместимое с прежним бэкендом сайта
	DefaultKeyPrefix = "slot:"

	scanBatchSize = 200
	maxTxRetries  = 5
)

// Logger интерфейс логгера хранилища
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisRepository хранит каждый слот JSON-строкой под ключом <prefix><id>
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	logger Logger
}

// NewRedisRepository создает репозиторий слотов поверх Redis
func NewRedisRepository(client redis.UniversalClient, prefix string, logger Logger) *RedisRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRepository{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

// Get возвращает слот по ID
func (r *RedisRepository) Get(ctx context.Context, id string) (*domain.Slot, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: id=%s", ErrSlotNotFound, id)
		}
		return nil, fmt.Errorf("%w: Get - id=%s: %v", ErrExecQuery, id, err)
	}
	return decodeSlot(data)
}

// Put полностью перезаписывает слот
func (r *RedisRepository) Put(ctx context.Context, s *domain.Slot) error {
	data, err := encodeSlot(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: Put - id=%s: %v", ErrExecQuery, s.ID, err)
	}
	return nil
}

// PutIf перезаписывает слот в транзакции WATCH/MULTI/EXEC.
// Если ключ изменился между чтением и записью, условие проверяется заново.
func (r *RedisRepository) PutIf(ctx context.Context, s *domain.Slot, cond domain.SlotCondition) error {
	data, err := encodeSlot(s)
	if err != nil {
		return err
	}
	key := r.key(s.ID)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: id=%s", ErrSlotNotFound, s.ID)
			}
			return fmt.Errorf("%w: PutIf - get id=%s: %v", ErrExecQuery, s.ID, err)
		}
		current, err := decodeSlot(raw)
		if err != nil {
			return err
		}
		if !cond.Matches(current) {
			return fmt.Errorf("%w: id=%s, status=%s", ErrConflict, s.ID, current.Status)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrSlotNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrDecodeRecord) || errors.Is(err, ErrExecQuery) {
			return err
		}
		return fmt.Errorf("%w: PutIf - id=%s: %v", ErrExecQuery, s.ID, err)
	}

	return fmt.Errorf("%w: id=%s, concurrent writers exhausted retries", ErrConflict, s.ID)
}

// Delete удаляет слот. Отсутствие ключа не является ошибкой
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - id=%s: %v", ErrExecQuery, id, err)
	}
	return nil
}

// List сканирует пространство ключей по префиксу и возвращает все слоты.
// Нечитаемые записи пропускаются с предупреждением.
func (r *RedisRepository) List(ctx context.Context) ([]*domain.Slot, error) {
	var (
		cursor uint64
		slots  []*domain.Slot
	)
	// SCAN может вернуть один ключ несколько раз
	seen := make(map[string]struct{})
	pattern := r.prefix + "*"

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %v", ErrExecQuery, err)
		}

		if len(keys) > 0 {
			values, err := r.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("%w: List - mget: %v", ErrExecQuery, err)
			}
			for i, v := range values {
				raw, ok := v.(string)
				if !ok {
					// ключ удален между SCAN и MGET
					continue
				}
				if _, dup := seen[keys[i]]; dup {
					continue
				}
				seen[keys[i]] = struct{}{}

				s, err := decodeSlot([]byte(raw))
				if err != nil {
					r.warn("RedisRepository.List: skip key=%s: %v", keys[i], err)
					continue
				}
				if s.ID != strings.TrimPrefix(keys[i], r.prefix) {
					r.warn("RedisRepository.List: key=%s holds slot id=%s", keys[i], s.ID)
				}
				slots = append(slots, s)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return slots, nil
}

// Ping проверяет доступность Redis
func (r *RedisRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *RedisRepository) warn(format string, v ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(format, v...)
	}
}
