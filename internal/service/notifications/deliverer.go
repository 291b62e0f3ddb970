package notifications

import (
	"context"
	"fmt"
	"time"
)

const (
	resultSent   = "sent"
	resultFailed = "failed"
)

// Deliverer синхронно рендерит и отправляет одно уведомление
type Deliverer struct {
	composer *Composer
	sender   Sender
	metrics  Metrics
	log      Logger
	timeout  time.Duration
}

// NewDeliverer создает Deliverer. timeout ограничивает одну отправку; 0 означает без ограничения
func NewDeliverer(composer *Composer, sender Sender, metrics Metrics, log Logger, timeout time.Duration) *Deliverer {
	return &Deliverer{
		composer: composer,
		sender:   sender,
		metrics:  metrics,
		log:      log,
		timeout:  timeout,
	}
}

// Deliver отправляет уведомление и учитывает результат в метриках
func (d *Deliverer) Deliver(ctx context.Context, n Notification) error {
	msg, err := d.composer.Compose(n)
	if err != nil {
		d.observe(n.Kind, resultFailed)
		return err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.observe(n.Kind, resultFailed)
		return fmt.Errorf("%w: kind=%s, slot_id=%s: %v", ErrDeliver, n.Kind, n.SlotID, err)
	}

	d.observe(n.Kind, resultSent)
	d.log.Info("Deliverer.Deliver: kind=%s, slot_id=%s, to=%s", n.Kind, n.SlotID, msg.To)
	return nil
}

func (d *Deliverer) observe(kind Kind, result string) {
	if d.metrics != nil {
		d.metrics.ObserveNotification(string(kind), result)
	}
}
