package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestApprovalMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewApprovalMetrics(reg)

	m.IncOutcome("success")
	m.IncOutcome("success")
	m.IncOutcome("error")
	m.IncOutcome("")
	m.ObserveSyncDuration(250 * time.Millisecond)
	m.SetWarningCount(7)

	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("success")); got != 2 {
		t.Fatalf("success count = %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("error")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("unknown count = %v", got)
	}
	if got := testutil.ToFloat64(m.warnings); got != 7 {
		t.Fatalf("warning gauge = %v", got)
	}
}

func TestApprovalMetricsNilSafe(t *testing.T) {
	var m *ApprovalMetrics
	m.IncOutcome("success")
	m.ObserveSyncDuration(time.Second)
	m.SetWarningCount(1)

	empty := NewApprovalMetrics(nil)
	empty.IncOutcome("success")
	empty.SetWarningCount(2)
}
