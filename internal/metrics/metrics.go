// Package metrics holds the Prometheus collectors for planning operations.
//
// Metrics:
//   - mealplan_operations_total{operation,result} - Count of manager operations by outcome
//   - mealplan_operation_duration_seconds{operation} - Histogram of operation latency
//   - mealplan_overlap_rejections_total{operation} - Count of writes rejected for overlap
//   - mealplan_periods_auto_created_total - Count of weekly periods created by date resolution
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultOverlap  = "overlap"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Metrics holds Prometheus metrics for the period manager.
type Metrics struct {
	OperationsTotal        *prometheus.CounterVec
	OperationDuration      *prometheus.HistogramVec
	OverlapRejectionsTotal *prometheus.CounterVec
	PeriodsAutoCreated     prometheus.Counter
}

// New creates the collectors and registers them with reg. A dedicated
// registry per server keeps tests free of duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplan_operations_total",
				Help: "Total number of planning operations by result",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealplan_operation_duration_seconds",
				Help:    "Duration of planning operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OverlapRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplan_overlap_rejections_total",
				Help: "Total number of period writes rejected because of an overlap",
			},
			[]string{"operation"},
		),
		PeriodsAutoCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mealplan_periods_auto_created_total",
				Help: "Total number of weekly periods created while resolving a date",
			},
		),
	}
}

// Observe records one operation. Safe to call on a nil receiver.
func (m *Metrics) Observe(operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if result == ResultOverlap {
		m.OverlapRejectionsTotal.WithLabelValues(operation).Inc()
	}
}

// AutoCreated records a period created by date resolution. Safe on nil.
func (m *Metrics) AutoCreated() {
	if m == nil {
		return
	}
	m.PeriodsAutoCreated.Inc()
}
