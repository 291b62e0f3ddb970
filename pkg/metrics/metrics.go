package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the service.
// All observer methods are safe to call on a nil receiver, so metrics can be switched off in config.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	slotTransitions   *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	notificationQueue prometheus.Gauge
}

// New registers collectors under the given namespace. A nil registerer means the default one.
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, action and status code",
		}, []string{"route", "action", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "action", "method"}),
		slotTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "slots",
			Name:      "transitions_total",
			Help:      "Slot lifecycle operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Transactional emails by kind and result",
		}, []string{"kind", "result"}),
		notificationQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "queue_depth",
			Help:      "Notifications waiting in the in-process dispatcher",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.slotTransitions, m.notifications, m.notificationQueue)
	return m
}

func (m *Metrics) ObserveHTTP(route, action, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, action, method, code).Inc()
	m.httpDuration.WithLabelValues(route, action, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTransition(operation, outcome string) {
	if m == nil {
		return
	}
	m.slotTransitions.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveNotification(kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.notificationQueue.Set(float64(depth))
}
