package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charset = "UTF-8"

// SESAPI подмножество клиента SES v2
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender отправляет письма через AWS SES
type SESSender struct {
	client SESAPI
	from   From
	log    Logger
}

// NewSESSender создает отправителя поверх клиента SES
func NewSESSender(client SESAPI, from From, log Logger) *SESSender {
	return &SESSender{
		client: client,
		from:   from,
		log:    log,
	}
}

// Send отправляет письмо через SES
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("%w: ses client is nil", ErrNotConfigured)
	}
	if err := validate(msg); err != nil {
		return err
	}

	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String(charset)},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)}
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from.String()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
	})
	if err != nil {
		s.log.Error("SESSender.Send: to=%s, subject=%q: %v", msg.To, msg.Subject, err)
		return fmt.Errorf("%w: ses: %v", ErrSendFailed, err)
	}

	s.log.Info("SESSender.Send: to=%s, subject=%q, message_id=%s", msg.To, msg.Subject, aws.ToString(out.MessageId))
	return nil
}
