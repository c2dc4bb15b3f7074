package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookPublisherMetrics tracks outbox delivery attempts and outcomes.
type WebhookPublisherMetrics struct {
	attempts    *prometheus.CounterVec
	published   *prometheus.CounterVec
	deadLetters *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	backlog     prometheus.Gauge
}

// NewWebhookPublisherMetrics registers the publisher metrics on the provided registerer.
func NewWebhookPublisherMetrics(reg prometheus.Registerer) *WebhookPublisherMetrics {
	if reg == nil {
		return &WebhookPublisherMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_publish_attempts_total",
		Help: "Delivery attempts against the webhook sink.",
	}, []string{"event_type"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_published_total",
		Help: "Events acknowledged by the webhook sink.",
	}, []string{"event_type"})
	deadLetters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_dead_letters_total",
		Help: "Events moved to the dead letter table.",
	}, []string{"event_type", "reason"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_publish_duration_seconds",
		Help:    "Latency of webhook sink requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "webhook_outbox_backlog",
		Help: "Unpublished events remaining in the outbox.",
	})
	reg.MustRegister(attempts, published, deadLetters, latency, backlog)
	return &WebhookPublisherMetrics{
		attempts:    attempts,
		published:   published,
		deadLetters: deadLetters,
		latency:     latency,
		backlog:     backlog,
	}
}

// IncAttempt counts a delivery attempt for the given event type.
func (w *WebhookPublisherMetrics) IncAttempt(eventType string) {
	if w == nil || w.attempts == nil {
		return
	}
	w.attempts.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncPublished counts a successful delivery for the given event type.
func (w *WebhookPublisherMetrics) IncPublished(eventType string) {
	if w == nil || w.published == nil {
		return
	}
	w.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDeadLetter counts an event moved to the DLQ.
func (w *WebhookPublisherMetrics) IncDeadLetter(eventType, reason string) {
	if w == nil || w.deadLetters == nil {
		return
	}
	w.deadLetters.WithLabelValues(normalizeLabel(eventType), normalizeLabel(reason)).Inc()
}

// ObserveLatency records the wall time of a sink request.
func (w *WebhookPublisherMetrics) ObserveLatency(eventType string, duration time.Duration) {
	if w == nil || w.latency == nil {
		return
	}
	w.latency.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}

// SetBacklog records the current unpublished backlog size.
func (w *WebhookPublisherMetrics) SetBacklog(size int) {
	if w == nil || w.backlog == nil {
		return
	}
	w.backlog.Set(float64(size))
}
