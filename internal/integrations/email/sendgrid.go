package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridAPI подмножество клиента SendGrid
type SendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client SendGridAPI
	from   From
	log    Logger
}

// NewSendGridSender создает отправителя по API ключу
func NewSendGridSender(apiKey string, from From, log Logger) *SendGridSender {
	var client SendGridAPI
	if apiKey != "" {
		client = sendgrid.NewSendClient(apiKey)
	}
	return NewSendGridSenderWithClient(client, from, log)
}

// NewSendGridSenderWithClient создает отправителя с готовым клиентом
func NewSendGridSenderWithClient(client SendGridAPI, from From, log Logger) *SendGridSender {
	return &SendGridSender{
		client: client,
		from:   from,
		log:    log,
	}
}

// Send отправляет письмо через SendGrid
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("%w: sendgrid api key is empty", ErrNotConfigured)
	}
	if err := validate(msg); err != nil {
		return err
	}

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	message := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Text,
		html,
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.log.Error("SendGridSender.Send: to=%s, subject=%q: %v", msg.To, msg.Subject, err)
		return fmt.Errorf("%w: sendgrid: %v", ErrSendFailed, err)
	}
	if resp.StatusCode >= 400 {
		s.log.Error("SendGridSender.Send: to=%s, status=%d, body=%s", msg.To, resp.StatusCode, resp.Body)
		return fmt.Errorf("%w: sendgrid returned status %d", ErrSendFailed, resp.StatusCode)
	}

	s.log.Info("SendGridSender.Send: to=%s, subject=%q, status=%d", msg.To, msg.Subject, resp.StatusCode)
	return nil
}
