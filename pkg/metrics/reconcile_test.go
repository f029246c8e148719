package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReconcileMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconcileMetrics(reg)

	m.ObserveRecord("ok", 25*time.Millisecond)
	m.ObserveRecord("", time.Millisecond)
	m.IncFlaggedLine()
	m.IncProductCreated()
	m.IncProductCreated()
	m.IncProductUpdated()

	if got := testutil.ToFloat64(m.invoices.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok invoice, got %v", got)
	}
	if got := testutil.ToFloat64(m.invoices.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty outcome to normalize to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.flaggedLines); got != 1 {
		t.Fatalf("expected 1 flagged line, got %v", got)
	}
	if got := testutil.ToFloat64(m.productsCreated); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.productsUpdated); got != 1 {
		t.Fatalf("expected 1 updated, got %v", got)
	}
}

func TestReconcileMetricsNilSafe(t *testing.T) {
	var m *ReconcileMetrics
	m.ObserveRecord("ok", time.Second)
	m.IncFlaggedLine()
	m.IncProductCreated()
	m.IncProductUpdated()

	empty := NewReconcileMetrics(nil)
	empty.ObserveRecord("ok", time.Second)
	empty.IncFlaggedLine()
}
