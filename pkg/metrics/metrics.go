// Package metrics exposes batch processing counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "poextract"

// Metrics holds the collectors updated by batch runs.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	rows      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	runs      prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Documents handled by batch runs, by format and outcome.",
		}, []string{"format", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Workbook rows by result (added or skipped as duplicate).",
		}, []string{"format", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to fetch, extract and store one document.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"format"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_runs_total",
			Help:      "Completed batch runs.",
		}),
	}

	m.registry.MustRegister(m.documents, m.rows, m.duration, m.runs)
	return m
}

// ObserveDocument records one document's outcome ("success", "skipped" or
// an error kind) and duration.
func (m *Metrics) ObserveDocument(format, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(format, outcome).Inc()
	if outcome != "skipped" {
		m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	}
}

// ObserveRows records workbook append results.
func (m *Metrics) ObserveRows(format string, added, skipped int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(format, "added").Add(float64(added))
	m.rows.WithLabelValues(format, "skipped").Add(float64(skipped))
}

// RunCompleted counts a finished batch run.
func (m *Metrics) RunCompleted() {
	if m == nil {
		return
	}
	m.runs.Inc()
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
