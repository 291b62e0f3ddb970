package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeSendGrid struct {
	email  *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.email = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

var coach = From{Email: "bookings@coach.example", Name: "Coaching"}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, coach, nopLogger{})

	err := sender.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hello", Text: "plain", HTML: "<p>html</p>"})
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "Coaching <bookings@coach.example>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"ann@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(api.input.Content.Simple.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(api.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(api.input.Content.Simple.Body.Html.Data))
}

func TestSESSender_Errors(t *testing.T) {
	api := &fakeSES{err: errors.New("throttled")}
	sender := NewSESSender(api, coach, nopLogger{})

	err := sender.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hello", Text: "plain"})
	assert.ErrorIs(t, err, ErrSendFailed)

	err = sender.Send(context.Background(), Message{Subject: "Hello"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	err = NewSESSender(nil, coach, nopLogger{}).Send(context.Background(), Message{To: "a@b.c", Subject: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendGridSender_Send(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	sender := NewSendGridSenderWithClient(api, coach, nopLogger{})

	err := sender.Send(context.Background(), Message{To: "ann@example.com", ToName: "Ann", Subject: "Hello", Text: "plain"})
	require.NoError(t, err)

	require.NotNil(t, api.email)
	assert.Equal(t, "bookings@coach.example", api.email.From.Address)
	assert.Equal(t, "Hello", api.email.Subject)
	require.Len(t, api.email.Content, 2)
	assert.Equal(t, "plain", api.email.Content[0].Value)
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	sender := NewSendGridSenderWithClient(&fakeSendGrid{status: 401}, coach, nopLogger{})

	err := sender.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hello", Text: "plain"})
	assert.ErrorIs(t, err, ErrSendFailed)

	err = NewSendGridSender("", coach, nopLogger{}).Send(context.Background(), Message{To: "ann@example.com", Subject: "Hello"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStubSender(t *testing.T) {
	sender := NewStubSender(nopLogger{})
	assert.NoError(t, sender.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hello"}))
	assert.ErrorIs(t, sender.Send(context.Background(), Message{To: "ann@example.com"}), ErrInvalidMessage)
}
