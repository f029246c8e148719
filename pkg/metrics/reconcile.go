package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics records counters for the invoice reconciliation path.
type ReconcileMetrics struct {
	duration        *prometheus.HistogramVec
	invoices        *prometheus.CounterVec
	flaggedLines    prometheus.Counter
	productsCreated prometheus.Counter
	productsUpdated prometheus.Counter
}

// NewReconcileMetrics registers the reconciliation metrics on the provided registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_record_duration_seconds",
		Help:    "Duration of invoice recording in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	invoices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoices_recorded_total",
		Help: "Invoice recording attempts by outcome.",
	}, []string{"outcome"})
	flaggedLines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoice_lines_flagged_total",
		Help: "Invoice lines whose extended price failed the tolerance check.",
	})
	productsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "Products created from first invoice sightings.",
	})
	productsUpdated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_updated_total",
		Help: "Products refreshed from repeat invoice sightings.",
	})
	reg.MustRegister(duration, invoices, flaggedLines, productsCreated, productsUpdated)
	return &ReconcileMetrics{
		duration:        duration,
		invoices:        invoices,
		flaggedLines:    flaggedLines,
		productsCreated: productsCreated,
		productsUpdated: productsUpdated,
	}
}

// ObserveRecord records the duration and outcome of one recording attempt.
func (m *ReconcileMetrics) ObserveRecord(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.invoices.WithLabelValues(label).Inc()
}

// IncFlaggedLine counts one extended-price mismatch.
func (m *ReconcileMetrics) IncFlaggedLine() {
	if m == nil || m.flaggedLines == nil {
		return
	}
	m.flaggedLines.Inc()
}

// IncProductCreated counts one first sighting.
func (m *ReconcileMetrics) IncProductCreated() {
	if m == nil || m.productsCreated == nil {
		return
	}
	m.productsCreated.Inc()
}

// IncProductUpdated counts one repeat sighting.
func (m *ReconcileMetrics) IncProductUpdated() {
	if m == nil || m.productsUpdated == nil {
		return
	}
	m.productsUpdated.Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
