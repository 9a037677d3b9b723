package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ApprovalMetrics records outcomes of the registration approval pipeline.
type ApprovalMetrics struct {
	outcomes     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	warnings     prometheus.Gauge
}

// NewApprovalMetrics registers the approval metrics on the provided registerer.
func NewApprovalMetrics(reg prometheus.Registerer) *ApprovalMetrics {
	if reg == nil {
		return &ApprovalMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_approvals_total",
		Help: "Registration approval attempts by outcome.",
	}, []string{"outcome"})
	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "compenda_sync_duration_seconds",
		Help:    "Duration of Compenda sync calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	warnings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "registration_warnings",
		Help: "Registrations currently classified as warning by the plausibility check.",
	})
	reg.MustRegister(outcomes, syncDuration, warnings)
	return &ApprovalMetrics{
		outcomes:     outcomes,
		syncDuration: syncDuration,
		warnings:     warnings,
	}
}

// IncOutcome increments the approval counter for the named outcome.
func (a *ApprovalMetrics) IncOutcome(outcome string) {
	if a == nil || a.outcomes == nil {
		return
	}
	a.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSyncDuration records how long a Compenda sync call took.
func (a *ApprovalMetrics) ObserveSyncDuration(duration time.Duration) {
	if a == nil || a.syncDuration == nil {
		return
	}
	a.syncDuration.Observe(duration.Seconds())
}

// SetWarningCount publishes the current warning-classified registration count.
func (a *ApprovalMetrics) SetWarningCount(count int) {
	if a == nil || a.warnings == nil {
		return
	}
	a.warnings.Set(float64(count))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
