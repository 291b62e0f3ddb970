package slot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// slotRecord формат JSON-записи слота в key-value хранилище.
// Записи без schemaVersion созданы прежним бэкендом сайта и читаются в мягком режиме.
type slotRecord struct {
	SchemaVersion int            `json:"schemaVersion,omitempty"`
	ID            string         `json:"id"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Duration      flexibleInt    `json:"duration"`
	Status        string         `json:"status"`
	Booking       *bookingRecord `json:"booking,omitempty"`
	ApprovalToken string         `json:"approvalToken,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
}

type bookingRecord struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Message           *string `json:"message,omitempty"`
	ContactPreference *string `json:"contactPreference,omitempty"`
	// contactType старое имя поля contactPreference
	ContactType *string `json:"contactType,omitempty"`
	RequestedAt string  `json:"requestedAt,omitempty"`
}

// flexibleInt принимает как число, так и строку с числом ("60")
type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("duration %q is not a number", s)
		}
		*f = flexibleInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleInt(int(n))
	return nil
}

// encodeSlot сериализует слот в JSON текущей версии схемы
func encodeSlot(s *domain.Slot) ([]byte, error) {
	rec := slotRecord{
		SchemaVersion: domain.SchemaVersion,
		ID:            s.ID,
		Date:          s.Date,
		Time:          s.Time,
		Duration:      flexibleInt(s.Duration),
		Status:        string(s.Status),
		ApprovalToken: s.ApprovalToken,
	}
	if !s.CreatedAt.IsZero() {
		rec.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	rec.Booking = toBookingRecord(s.Booking)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s: %v", ErrEncodeRecord, s.ID, err)
	}
	return data, nil
}

// decodeSlot разбирает запись любой версии и нормализует инварианты статуса
func decodeSlot(data []byte) (*domain.Slot, error) {
	var rec slotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeRecord, err)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: record has no id", ErrDecodeRecord)
	}

	s := &domain.Slot{
		ID:            rec.ID,
		Date:          rec.Date,
		Time:          rec.Time,
		Duration:      int(rec.Duration),
		Status:        domain.SlotStatus(strings.ToLower(strings.TrimSpace(rec.Status))),
		ApprovalToken: rec.ApprovalToken,
		CreatedAt:     parseTimestamp(rec.CreatedAt),
	}
	s.Booking = rec.Booking.toDomain()

	s.Normalize()
	return s, nil
}

func toBookingRecord(b *domain.Booking) *bookingRecord {
	if b == nil {
		return nil
	}
	return &bookingRecord{
		Name:              b.Name,
		Email:             b.Email,
		Phone:             b.Phone,
		Message:           b.Message,
		ContactPreference: b.ContactPreference,
		RequestedAt:       b.RequestedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (b *bookingRecord) toDomain() *domain.Booking {
	if b == nil {
		return nil
	}
	pref := b.ContactPreference
	if pref == nil {
		pref = b.ContactType
	}
	return &domain.Booking{
		Name:              b.Name,
		Email:             b.Email,
		Phone:             b.Phone,
		Message:           b.Message,
		ContactPreference: pref,
		RequestedAt:       parseTimestamp(b.RequestedAt),
	}
}

// parseTimestamp принимает RFC3339 (в том числе с миллисекундами из JS) и unix-время в миллисекундах
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC()
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
