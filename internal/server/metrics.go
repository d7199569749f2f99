package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// translations counts successful translations.
	// Labels: intent (select, count, exists)
	translations *prometheus.CounterVec

	// failures counts requests that produced no SQL.
	failures prometheus.Counter

	// duration measures translation latency including the engine round trip.
	duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		translations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nl2sql",
			Name:      "translations_total",
			Help:      "Total successful translations by intent",
		}, []string{"intent"}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nl2sql",
			Name:      "translation_errors_total",
			Help:      "Total translation requests that failed",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nl2sql",
			Name:      "translation_duration_seconds",
			Help:      "Translation latency including the linguistic engine",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) observe(start time.Time, intent string, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.Inc()
		return
	}
	m.translations.WithLabelValues(intent).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
