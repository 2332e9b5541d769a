package planning

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/julianstephens/mealplan/internal/metrics"
	"github.com/julianstephens/mealplan/internal/storage/memory"
)

func TestManagerRecordsMetrics(t *testing.T) {
	mt := metrics.New(prometheus.NewRegistry())
	m := NewManager(memory.NewStore(), WithMetrics(mt), WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	f, err := m.CreateFamily(ctx, "Metrics")
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if _, err := m.ResolvePeriodForDate(ctx, f.ID, "2026-01-01"); err != nil {
		t.Fatalf("ResolvePeriodForDate failed: %v", err)
	}
	m.CreatePeriod(ctx, f.ID, "2026-01-01", "2026-01-02", "")
	m.CreatePeriod(ctx, f.ID, "2026-01-02", "2026-01-01", "")

	if got := testutil.ToFloat64(mt.PeriodsAutoCreated); got != 1 {
		t.Errorf("expected 1 auto-created period, got %v", got)
	}
	if got := testutil.ToFloat64(mt.OperationsTotal.WithLabelValues("create_period", metrics.ResultOverlap)); got != 1 {
		t.Errorf("expected 1 overlapping create, got %v", got)
	}
	if got := testutil.ToFloat64(mt.OperationsTotal.WithLabelValues("create_period", metrics.ResultInvalid)); got != 1 {
		t.Errorf("expected 1 invalid create, got %v", got)
	}
	if got := testutil.ToFloat64(mt.OperationsTotal.WithLabelValues("resolve_period", metrics.ResultOK)); got != 1 {
		t.Errorf("expected 1 resolve, got %v", got)
	}
	if got := testutil.ToFloat64(mt.OverlapRejectionsTotal.WithLabelValues("create_period")); got != 1 {
		t.Errorf("expected 1 overlap rejection, got %v", got)
	}
}
