package notifications

import (
	"net/url"
	"strings"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Kind тип уведомления
type Kind string

const (
	// KindBookingReceived подтверждение клиенту, что заявка получена
	KindBookingReceived Kind = "booking_received"
	// KindApprovalRequest письмо коучу со ссылками approve/decline
	KindApprovalRequest Kind = "approval_request"
	// KindBookingConfirmed клиенту: коуч подтвердил встречу
	KindBookingConfirmed Kind = "booking_confirmed"
	// KindBookingDeclined клиенту: коуч отклонил заявку
	KindBookingDeclined Kind = "booking_declined"
)

// Notification сериализуемое описание письма.
// В режиме queue уходит в Redis как есть. У approval_request ApproveURL и DeclineURL
// содержат действующий одноразовый токен решения, поэтому Redis очереди
// должен быть так же закрыт, как хранилище слотов.
type Notification struct {
	Kind Kind `json:"kind"`

	SlotID   string `json:"slotId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`

	CustomerName      string `json:"customerName"`
	CustomerEmail     string `json:"customerEmail"`
	CustomerPhone     string `json:"customerPhone"`
	Message           string `json:"message,omitempty"`
	ContactPreference string `json:"contactPreference,omitempty"`

	// Заполняются только для KindApprovalRequest
	ApproveURL string `json:"approveUrl,omitempty"`
	DeclineURL string `json:"declineUrl,omitempty"`
}

// New собирает уведомление из слота и заявки.
// Заявка передается отдельно: после отклонения она уже снята со слота.
func New(kind Kind, slot *domain.Slot, booking *domain.Booking) Notification {
	n := Notification{
		Kind:     kind,
		SlotID:   slot.ID,
		Date:     slot.Date,
		Time:     slot.Time,
		Duration: slot.Duration,
	}
	if booking != nil {
		n.CustomerName = booking.Name
		n.CustomerEmail = booking.Email
		n.CustomerPhone = booking.Phone
		if booking.Message != nil {
			n.Message = *booking.Message
		}
		if booking.ContactPreference != nil {
			n.ContactPreference = *booking.ContactPreference
		}
	}
	return n
}

// WithReviewLinks добавляет ссылки approve/decline для письма коучу
func (n Notification) WithReviewLinks(baseURL, token string) Notification {
	n.ApproveURL = ReviewLink(baseURL, "approve", n.SlotID, token)
	n.DeclineURL = ReviewLink(baseURL, "decline", n.SlotID, token)
	return n
}

// ReviewLink строит ссылку вида <base>/api/booking?action=approve&slotId=..&token=..
func ReviewLink(baseURL, action, slotID, token string) string {
	q := url.Values{}
	q.Set("action", action)
	q.Set("slotId", slotID)
	q.Set("token", token)
	return strings.TrimRight(baseURL, "/") + "/api/booking?" + q.Encode()
}
