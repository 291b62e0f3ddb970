package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/integrations/email"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSender struct {
	mu    sync.Mutex
	sent  []email.Message
	err   error
	delay time.Duration
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *fakeMetrics) ObserveNotification(kind, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[kind+"/"+result]++
}

func (m *fakeMetrics) SetQueueDepth(int) {}

func (m *fakeMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[key]
}

func requestedSlot(t *testing.T) *domain.Slot {
	t.Helper()
	msg := "Looking forward <3"
	pref := "phone"
	s := domain.NewSlot("slot-1", "2025-03-01", "10:00", 60, time.Now())
	require.NoError(t, s.MarkRequested(domain.Booking{
		Name:              "Ann",
		Email:             "ann@example.com",
		Phone:             "+100",
		Message:           &msg,
		ContactPreference: &pref,
	}, "tok-1"))
	return s
}

func TestReviewLink(t *testing.T) {
	link := ReviewLink("https://coach.example/", "approve", "slot 1", "tok&x")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/api/booking", u.Path)
	assert.Equal(t, "approve", u.Query().Get("action"))
	assert.Equal(t, "slot 1", u.Query().Get("slotId"))
	assert.Equal(t, "tok&x", u.Query().Get("token"))
}

func TestComposer_ApprovalRequestGoesToCoach(t *testing.T) {
	s := requestedSlot(t)
	n := New(KindApprovalRequest, s, s.Booking).WithReviewLinks("https://coach.example", s.ApprovalToken)

	msg, err := NewComposer("coach@coach.example").Compose(n)
	require.NoError(t, err)

	assert.Equal(t, "coach@coach.example", msg.To)
	assert.Contains(t, msg.Subject, "2025-03-01 10:00")
	assert.Contains(t, msg.Text, "Phone:    +100")
	assert.Contains(t, msg.Text, "Contact:  phone")
	assert.Contains(t, msg.Text, "action=approve")
	assert.Contains(t, msg.Text, "action=decline")
	assert.Contains(t, msg.HTML, "Looking forward &lt;3")
	assert.NotContains(t, msg.HTML, "Looking forward <3")
}

func TestComposer_CustomerMessages(t *testing.T) {
	s := requestedSlot(t)
	composer := NewComposer("coach@coach.example")

	for _, kind := range []Kind{KindBookingReceived, KindBookingConfirmed, KindBookingDeclined} {
		msg, err := composer.Compose(New(kind, s, s.Booking))
		require.NoError(t, err, kind)
		assert.Equal(t, "ann@example.com", msg.To, kind)
		assert.Equal(t, "Ann", msg.ToName, kind)
		assert.NotEmpty(t, msg.Subject, kind)
		assert.Contains(t, msg.Text, "2025-03-01", kind)
		assert.NotContains(t, msg.Text, "tok-1", kind)
	}
}

func TestComposer_Errors(t *testing.T) {
	s := requestedSlot(t)

	_, err := NewComposer("").Compose(New(KindApprovalRequest, s, s.Booking))
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = NewComposer("coach@coach.example").Compose(New(KindBookingConfirmed, s, nil))
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = NewComposer("coach@coach.example").Compose(Notification{Kind: "sms"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDeliverer_Deliver(t *testing.T) {
	s := requestedSlot(t)
	sender := &fakeSender{}
	metrics := &fakeMetrics{}
	d := NewDeliverer(NewComposer("coach@coach.example"), sender, metrics, nopLogger{}, time.Second)

	require.NoError(t, d.Deliver(context.Background(), New(KindBookingConfirmed, s, s.Booking)))
	assert.Len(t, sender.messages(), 1)
	assert.Equal(t, 1, metrics.count("booking_confirmed/sent"))

	sender.err = errors.New("smtp down")
	err := d.Deliver(context.Background(), New(KindBookingConfirmed, s, s.Booking))
	assert.ErrorIs(t, err, ErrDeliver)
	assert.Equal(t, 1, metrics.count("booking_confirmed/failed"))
}

func TestInlineDispatcher_SwallowsErrors(t *testing.T) {
	s := requestedSlot(t)
	sender := &fakeSender{err: errors.New("smtp down")}
	d := NewInlineDispatcher(NewDeliverer(NewComposer("c@c.example"), sender, nil, nopLogger{}, 0), nopLogger{})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), New(KindBookingReceived, s, s.Booking))
	})
	assert.NoError(t, d.Close(context.Background()))
}

func TestAsyncDispatcher_DrainsOnClose(t *testing.T) {
	s := requestedSlot(t)
	sender := &fakeSender{delay: 5 * time.Millisecond}
	d := NewAsyncDispatcher(NewDeliverer(NewComposer("c@c.example"), sender, nil, nopLogger{}, time.Second), nil, nopLogger{}, 2, 16)

	for i := 0; i < 10; i++ {
		d.Dispatch(context.Background(), New(KindBookingReceived, s, s.Booking))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Len(t, sender.messages(), 10)

	// после закрытия уведомления отбрасываются без паники
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), New(KindBookingReceived, s, s.Booking))
	})
	assert.NoError(t, d.Close(ctx))
}

func TestAsyncDispatcher_DropsWhenFull(t *testing.T) {
	s := requestedSlot(t)
	block := make(chan struct{})
	sender := &blockingSender{started: make(chan struct{}), release: block}
	metrics := &fakeMetrics{}
	d := NewAsyncDispatcher(NewDeliverer(NewComposer("c@c.example"), sender, nil, nopLogger{}, 0), metrics, nopLogger{}, 1, 1)

	n := New(KindBookingReceived, s, s.Booking)
	d.Dispatch(context.Background(), n)
	<-sender.started
	d.Dispatch(context.Background(), n) // занимает буфер
	d.Dispatch(context.Background(), n) // отбрасывается

	assert.Equal(t, 1, metrics.count("booking_received/dropped"))

	close(block)
	require.NoError(t, d.Close(context.Background()))
}

type blockingSender struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, msg email.Message) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueName}, nil
}

func TestQueueDispatcher_Dispatch(t *testing.T) {
	s := requestedSlot(t)
	enq := &fakeEnqueuer{}
	metrics := &fakeMetrics{}
	d := NewQueueDispatcher(enq, metrics, nopLogger{})

	n := New(KindApprovalRequest, s, s.Booking).WithReviewLinks("https://coach.example", "tok-1")
	d.Dispatch(context.Background(), n)

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeSendNotification, enq.tasks[0].Type())

	var decoded Notification
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &decoded))
	assert.Equal(t, n, decoded)
	assert.Equal(t, 1, metrics.count("approval_request/enqueued"))

	enq.err = errors.New("redis down")
	d.Dispatch(context.Background(), n)
	assert.Equal(t, 1, metrics.count("approval_request/enqueue_failed"))
}

func TestQueueHandler(t *testing.T) {
	s := requestedSlot(t)
	sender := &fakeSender{}
	handler := NewQueueHandler(NewDeliverer(NewComposer("c@c.example"), sender, nil, nopLogger{}, 0), nopLogger{})

	task, _, err := NewTask(New(KindBookingConfirmed, s, s.Booking))
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, sender.messages(), 1)

	err = handler(context.Background(), asynq.NewTask(TypeSendNotification, []byte("{")))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	sender.err = errors.New("smtp down")
	err = handler(context.Background(), task)
	assert.ErrorIs(t, err, ErrDeliver)
}

func TestNewTask_ReviewTokenOnlyInApprovalRequest(t *testing.T) {
	s := requestedSlot(t)

	approvalTask, _, err := NewTask(New(KindApprovalRequest, s, s.Booking).WithReviewLinks("https://coach.example", "tok-1"))
	require.NoError(t, err)
	assert.Contains(t, string(approvalTask.Payload()), "token=tok-1")

	for _, kind := range []Kind{KindBookingReceived, KindBookingConfirmed, KindBookingDeclined} {
		task, _, err := NewTask(New(kind, s, s.Booking))
		require.NoError(t, err)
		assert.NotContains(t, string(task.Payload()), "tok-1", kind)
	}
}
