package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeSendNotification тип задачи asynq для отправки письма
const TypeSendNotification = "notification:send"

// QueueName очередь asynq, которую слушает cmd/worker
const QueueName = "notifications"

const (
	taskMaxRetry = 8
	taskTimeout  = time.Minute
)

// Enqueuer подмножество asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewTask упаковывает уведомление в задачу asynq
func NewTask(n Notification) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: marshal: %v", ErrEnqueue, err)
	}
	task := asynq.NewTask(TypeSendNotification, payload)
	opts := []asynq.Option{
		asynq.Queue(QueueName),
		asynq.MaxRetry(taskMaxRetry),
		asynq.Timeout(taskTimeout),
	}
	return task, opts, nil
}

// QueueDispatcher кладет уведомления в Redis-очередь asynq; отправляет их cmd/worker.
// Подходит для serverless: после ответа процесс может быть заморожен.
type QueueDispatcher struct {
	client  Enqueuer
	metrics Metrics
	log     Logger
}

// NewQueueDispatcher создает QueueDispatcher
func NewQueueDispatcher(client Enqueuer, metrics Metrics, log Logger) *QueueDispatcher {
	return &QueueDispatcher{
		client:  client,
		metrics: metrics,
		log:     log,
	}
}

// Dispatch ставит задачу в очередь; ошибка только логируется
func (d *QueueDispatcher) Dispatch(ctx context.Context, n Notification) {
	task, opts, err := NewTask(n)
	if err != nil {
		d.log.Error("QueueDispatcher.Dispatch: kind=%s, slot_id=%s: %v", n.Kind, n.SlotID, err)
		return
	}

	info, err := d.client.EnqueueContext(context.WithoutCancel(ctx), task, opts...)
	if err != nil {
		d.log.Error("QueueDispatcher.Dispatch: %v: kind=%s, slot_id=%s: %v", ErrEnqueue, n.Kind, n.SlotID, err)
		if d.metrics != nil {
			d.metrics.ObserveNotification(string(n.Kind), "enqueue_failed")
		}
		return
	}

	if d.metrics != nil {
		d.metrics.ObserveNotification(string(n.Kind), "enqueued")
	}
	d.log.Info("QueueDispatcher.Dispatch: kind=%s, slot_id=%s, task_id=%s", n.Kind, n.SlotID, info.ID)
}

// Close ничего не делает: клиент asynq закрывается владельцем
func (d *QueueDispatcher) Close(ctx context.Context) error {
	return nil
}

// NewQueueHandler возвращает обработчик задач TypeSendNotification для asynq.ServeMux.
// Ошибка доставки возвращается, чтобы asynq повторил задачу; битый payload не повторяется.
func NewQueueHandler(deliverer *Deliverer, log Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			log.Error("QueueHandler: invalid payload: %v", err)
			return fmt.Errorf("%w: %v: %w", ErrInvalidPayload, err, asynq.SkipRetry)
		}

		if err := deliverer.Deliver(ctx, n); err != nil {
			log.Warn("QueueHandler: kind=%s, slot_id=%s: %v", n.Kind, n.SlotID, err)
			return err
		}
		return nil
	}
}
