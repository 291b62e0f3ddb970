package email

import "errors"

var (
	// ErrNotConfigured возвращается, когда провайдер не настроен (нет клиента или ключа)
	ErrNotConfigured = errors.New("email client: provider not configured")

	// ErrInvalidMessage возвращается, когда у письма нет получателя или темы
	ErrInvalidMessage = errors.New("email client: invalid message")

	// ErrSendFailed возвращается при ошибке доставки письма провайдеру
	ErrSendFailed = errors.New("email client: send failed")
)
