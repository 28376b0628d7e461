package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWrapper_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	w := NewWrapper(m)

	w.PredictionsInc()
	w.PredictionsInc()
	w.PredictionErrorsInc()
	w.IndicatorCalcsInc()
	w.IndicatorErrorsInc()
	w.StoreWritesInc()
	w.StoreErrorsInc()

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 2 {
		t.Errorf("predictions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PredictionErrors); got != 1 {
		t.Errorf("prediction_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.IndicatorCalculations); got != 1 {
		t.Errorf("indicator_calculations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.IndicatorErrors); got != 1 {
		t.Errorf("indicator_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StoreWrites); got != 1 {
		t.Errorf("store_writes_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StoreErrors); got != 1 {
		t.Errorf("store_errors_total = %v, want 1", got)
	}
}

func TestWrapper_Histograms(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	w := NewWrapper(m)

	w.PredictionLatencyObserve(0.002)
	w.PredictionLatencyObserve(0.3)
	w.EvalAccuracyObserve(0.75)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]uint64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if h := metric.GetHistogram(); h != nil {
				counts[mf.GetName()] = h.GetSampleCount()
			}
		}
	}
	if counts["prediction_latency_seconds"] != 2 {
		t.Errorf("prediction_latency_seconds samples = %d, want 2", counts["prediction_latency_seconds"])
	}
	if counts["eval_accuracy"] != 1 {
		t.Errorf("eval_accuracy samples = %d, want 1", counts["eval_accuracy"])
	}
}

func TestNewWithRegistry_Isolated(t *testing.T) {
	t.Parallel()

	// Two registries must not collide on metric names.
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())
	a.PredictionsTotal.Inc()
	if got := testutil.ToFloat64(b.PredictionsTotal); got != 0 {
		t.Errorf("registries are not isolated: %v", got)
	}
}
