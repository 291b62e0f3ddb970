package slot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/pkg/psqlbuilder"
)

const slotsTable = "slots"

var slotColumns = []string{
	"id",
	"date",
	"time",
	"duration",
	"status",
	"booking",
	"approval_token",
	"created_at",
}

// PostgresRepository хранит слоты в таблице slots
type PostgresRepository struct {
	db DBExecutor
}

// NewPostgresRepository создает новый экземпляр репозитория слотов поверх PostgreSQL
func NewPostgresRepository(db DBExecutor) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get получает слот по ID
func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From(slotsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id=%s", ErrSlotNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Put вставляет слот или полностью перезаписывает существующий
func (r *PostgresRepository) Put(ctx context.Context, s *domain.Slot) error {
	booking, err := marshalBooking(s.Booking)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Insert(slotsTable).
		Columns(append(slotColumns, "schema_version")...).
		Values(
			s.ID,
			s.Date,
			s.Time,
			s.Duration,
			string(s.Status),
			booking,
			nullString(s.ApprovalToken),
			createdAtOrNow(s.CreatedAt),
			domain.SchemaVersion,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			time = EXCLUDED.time,
			duration = EXCLUDED.duration,
			status = EXCLUDED.status,
			booking = EXCLUDED.booking,
			approval_token = EXCLUDED.approval_token,
			schema_version = EXCLUDED.schema_version,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Put - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Put - execute upsert id=%s: %v", ErrExecQuery, s.ID, err)
	}
	return nil
}

// PutIf обновляет слот одним UPDATE с условием на текущий статус (и токен).
// Если ни одна строка не обновлена, различает отсутствие слота и конфликт.
func (r *PostgresRepository) PutIf(ctx context.Context, s *domain.Slot, cond domain.SlotCondition) error {
	booking, err := marshalBooking(s.Booking)
	if err != nil {
		return err
	}

	where := squirrel.And{
		squirrel.Eq{"id": s.ID},
		squirrel.Eq{"status": string(cond.Status)},
	}
	if cond.ApprovalToken != "" {
		where = append(where, squirrel.Eq{"approval_token": cond.ApprovalToken})
	}

	query, args, err := psqlbuilder.Update(slotsTable).
		Set("date", s.Date).
		Set("time", s.Time).
		Set("duration", s.Duration).
		Set("status", string(s.Status)).
		Set("booking", booking).
		Set("approval_token", nullString(s.ApprovalToken)).
		Set("schema_version", domain.SchemaVersion).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PutIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: PutIf - execute update id=%s: %v", ErrExecQuery, s.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: PutIf - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	current, err := r.Get(ctx, s.ID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: id=%s, status=%s", ErrConflict, s.ID, current.Status)
}

// Delete удаляет слот. Отсутствие строки не является ошибкой
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psqlbuilder.Delete(slotsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete id=%s: %v", ErrExecQuery, id, err)
	}
	return nil
}

// List возвращает все слоты
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From(slotsTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var slots []*domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Ping проверяет соединение с базой
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrExecQuery, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		s         domain.Slot
		status    string
		booking   []byte
		token     sql.NullString
		createdAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.Time,
		&s.Duration,
		&status,
		&booking,
		&token,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan slot: %v", ErrScanRow, err)
	}

	s.Status = domain.SlotStatus(status)
	s.ApprovalToken = token.String
	s.CreatedAt = createdAt.Time.UTC()

	if len(booking) > 0 {
		var rec bookingRecord
		if err := json.Unmarshal(booking, &rec); err != nil {
			return nil, fmt.Errorf("%w: booking of slot id=%s: %v", ErrDecodeRecord, s.ID, err)
		}
		s.Booking = rec.toDomain()
	}

	s.Normalize()
	return &s, nil
}

// marshalBooking возвращает значение для колонки jsonb или nil для NULL
func marshalBooking(b *domain.Booking) (interface{}, error) {
	rec := toBookingRecord(b)
	if rec == nil {
		return nil, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: booking: %v", ErrEncodeRecord, err)
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// createdAtOrNow подставляет текущее время для слотов без даты создания
func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
