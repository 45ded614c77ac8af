// Package metrics exposes Prometheus instrumentation for ingestion and planning.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion outcomes
const (
	ResultSuccess    = "success"
	ResultUnresolved = "unresolved"
	ResultEmpty      = "empty"
	ResultError      = "error"
)

// Metrics holds the collectors used by the services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ingestions      *prometheus.CounterVec
	rowsInserted    prometheus.Counter
	rowsSkipped     prometheus.Counter
	exportEncodings *prometheus.CounterVec
	plans           prometheus.Counter
	planDuration    prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetbalance",
			Name:      "ledger_ingestions_total",
			Help:      "Ledger uploads by outcome.",
		}, []string{"result"}),
		rowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assetbalance",
			Name:      "ledger_rows_inserted_total",
			Help:      "Ledger rows written by successful uploads.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assetbalance",
			Name:      "ledger_rows_skipped_total",
			Help:      "Export lines dropped by the row parser.",
		}),
		exportEncodings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetbalance",
			Name:      "export_encodings_total",
			Help:      "Detected character encodings of uploaded exports.",
		}, []string{"encoding"}),
		plans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assetbalance",
			Name:      "rebalance_plans_total",
			Help:      "Rebalancing plans computed.",
		}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assetbalance",
			Name:      "rebalance_plan_duration_seconds",
			Help:      "Time to read the snapshot and compute a plan.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.ingestions, m.rowsInserted, m.rowsSkipped, m.exportEncodings, m.plans, m.planDuration)
	return m
}

// ObserveIngestion records one upload outcome
func (m *Metrics) ObserveIngestion(result, encoding string, inserted, skipped int) {
	if m == nil {
		return
	}
	m.ingestions.WithLabelValues(result).Inc()
	if encoding != "" {
		m.exportEncodings.WithLabelValues(encoding).Inc()
	}
	m.rowsInserted.Add(float64(inserted))
	m.rowsSkipped.Add(float64(skipped))
}

// ObservePlan records one computed plan and how long it took
func (m *Metrics) ObservePlan(seconds float64) {
	if m == nil {
		return
	}
	m.plans.Inc()
	m.planDuration.Observe(seconds)
}
