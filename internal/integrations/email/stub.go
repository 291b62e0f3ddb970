package email

import "context"

// StubSender только логирует письма. Используется локально и когда провайдер не выбран
type StubSender struct {
	log Logger
}

// NewStubSender создает StubSender
func NewStubSender(log Logger) *StubSender {
	return &StubSender{log: log}
}

// Send логирует письмо и ничего не отправляет
func (s *StubSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	s.log.Info("StubSender.Send: would send to=%s, subject=%q", msg.To, msg.Subject)
	return nil
}

var (
	_ Sender = (*SESSender)(nil)
	_ Sender = (*SendGridSender)(nil)
	_ Sender = (*StubSender)(nil)
)
