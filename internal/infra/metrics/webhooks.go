package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookHandleLatencyMs,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook events by Stripe event type and processing outcome.",
		},
		[]string{"type", "outcome"},
	)

	webhookHandleLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_handle_latency_ms",
			Help:    "End-to-end handler latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"kind"},
	)
)

// Outcome labels for webhookEventsTotal.
const (
	OutcomeProcessed        = "processed"
	OutcomeDuplicate        = "duplicate"
	OutcomeUnlinked         = "unlinked"
	OutcomeUnmapped         = "unmapped"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeError            = "error"
)

func IncWebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(eventType), outcome).Inc()
}

func ObserveWebhookLatency(kind string, latencyMs int64) {
	webhookHandleLatencyMs.WithLabelValues(norm(kind)).Observe(float64(latencyMs))
}
