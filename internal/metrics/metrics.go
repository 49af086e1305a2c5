package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

const namespace = "tebex"

// Metrics holds the Prometheus collectors for the webhook pipeline. It
// implements webhook.Observer.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	CallbackFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "requests_total",
				Help:      "Total number of webhook requests by outcome and event type",
			},
			[]string{"outcome", "kind"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "request_duration_seconds",
				Help:      "Time spent processing a webhook request, including subscribers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		CallbackFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "callback_failures_total",
				Help:      "Total number of subscriber callbacks that returned an error or panicked",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.CallbackFailures)
	return m
}

// Processed records one pipeline run. Labels come from closed enums so
// cardinality stays bounded.
func (m *Metrics) Processed(outcome webhook.Outcome, kind webhook.EventKind, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(outcome.String(), kindLabel(kind)).Inc()
	m.RequestDuration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) CallbackFailed(kind webhook.EventKind, _ int, _ error) {
	m.CallbackFailures.WithLabelValues(kindLabel(kind)).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func kindLabel(kind webhook.EventKind) string {
	if !kind.Valid() {
		return "unknown"
	}
	return kind.String()
}

var _ webhook.Observer = (*Metrics)(nil)
