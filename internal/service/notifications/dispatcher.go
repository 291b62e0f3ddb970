package notifications

import (
	"context"
	"sync"
)

// InlineDispatcher отправляет уведомление синхронно в текущем запросе.
// Ошибка отправки только логируется.
type InlineDispatcher struct {
	deliverer *Deliverer
	log       Logger
}

// NewInlineDispatcher создает InlineDispatcher
func NewInlineDispatcher(deliverer *Deliverer, log Logger) *InlineDispatcher {
	return &InlineDispatcher{deliverer: deliverer, log: log}
}

// Dispatch отправляет уведомление и не возвращает ошибок
func (d *InlineDispatcher) Dispatch(ctx context.Context, n Notification) {
	// отмена запроса клиентом не должна обрывать уже начатую отправку
	if err := d.deliverer.Deliver(context.WithoutCancel(ctx), n); err != nil {
		d.log.Error("InlineDispatcher.Dispatch: kind=%s, slot_id=%s: %v", n.Kind, n.SlotID, err)
	}
}

// Close ничего не делает
func (d *InlineDispatcher) Close(ctx context.Context) error {
	return nil
}

// AsyncDispatcher отправляет уведомления пулом воркеров через ограниченный буфер.
// При переполнении буфера уведомление отбрасывается с записью в лог.
type AsyncDispatcher struct {
	deliverer *Deliverer
	metrics   Metrics
	log       Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Notification
	wg     sync.WaitGroup
}

// NewAsyncDispatcher создает диспетчер и запускает workers воркеров
func NewAsyncDispatcher(deliverer *Deliverer, metrics Metrics, log Logger, workers, buffer int) *AsyncDispatcher {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}

	d := &AsyncDispatcher{
		deliverer: deliverer,
		metrics:   metrics,
		log:       log,
		queue:     make(chan Notification, buffer),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.setDepth()
		if err := d.deliverer.Deliver(context.Background(), n); err != nil {
			d.log.Error("AsyncDispatcher.worker: kind=%s, slot_id=%s: %v", n.Kind, n.SlotID, err)
		}
	}
}

// Dispatch ставит уведомление в буфер, не блокируя вызывающего
func (d *AsyncDispatcher) Dispatch(ctx context.Context, n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("AsyncDispatcher.Dispatch: dispatcher closed, dropping kind=%s, slot_id=%s", n.Kind, n.SlotID)
		return
	}

	select {
	case d.queue <- n:
		d.setDepth()
	default:
		d.log.Warn("AsyncDispatcher.Dispatch: queue full, dropping kind=%s, slot_id=%s", n.Kind, n.SlotID)
		if d.metrics != nil {
			d.metrics.ObserveNotification(string(n.Kind), "dropped")
		}
	}
}

// Close прекращает прием уведомлений и ждет, пока воркеры разберут буфер
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) setDepth() {
	if d.metrics != nil {
		d.metrics.SetQueueDepth(len(d.queue))
	}
}
