package email

import (
	"context"
	"fmt"
	"strings"
)

// Logger интерфейс логгера почтовых клиентов
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sender отправляет транзакционные письма.
// Реализации: SESSender, SendGridSender, StubSender.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// From адрес отправителя
type From struct {
	Email string
	Name  string
}

// String форматирует адрес как "Name <email>"
func (f From) String() string {
	if f.Name == "" {
		return f.Email
	}
	return fmt.Sprintf("%s <%s>", f.Name, f.Email)
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("%w: empty recipient", ErrInvalidMessage)
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	return nil
}
