package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Request модели

// ListAllRequest запрос на получение всех слотов (админка)
type ListAllRequest struct {
	Authorized bool
}

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Authorized bool
	Date       string
	Time       string
	Duration   int
}

// DeleteSlotRequest запрос на удаление слота
type DeleteSlotRequest struct {
	Authorized bool
	ID         string
}

// Response модели

// PublicSlot слот в публичном списке: без заявки и токена
type PublicSlot struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
}

// BookingView данные заявки для админки
type BookingView struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Message           *string   `json:"message,omitempty"`
	ContactPreference *string   `json:"contactPreference,omitempty"`
	RequestedAt       time.Time `json:"requestedAt"`
}

// AdminSlot слот в админском списке. Токен подтверждения наружу не отдается.
type AdminSlot struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Duration  int          `json:"duration"`
	Status    string       `json:"status"`
	Booking   *BookingView `json:"booking,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Конвертеры

// FromDomainPublicSlot конвертирует domain.Slot в PublicSlot
func FromDomainPublicSlot(s *domain.Slot) PublicSlot {
	return PublicSlot{
		ID:       s.ID,
		Date:     s.Date,
		Time:     s.Time,
		Duration: s.Duration,
		Status:   string(s.Status),
	}
}

// FromDomainAdminSlot конвертирует domain.Slot в AdminSlot
func FromDomainAdminSlot(s *domain.Slot) *AdminSlot {
	resp := &AdminSlot{
		ID:        s.ID,
		Date:      s.Date,
		Time:      s.Time,
		Duration:  s.Duration,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}
	if s.Booking != nil {
		b := s.Booking.Clone()
		resp.Booking = &BookingView{
			Name:              b.Name,
			Email:             b.Email,
			Phone:             b.Phone,
			Message:           b.Message,
			ContactPreference: b.ContactPreference,
			RequestedAt:       b.RequestedAt,
		}
	}
	return resp
}
