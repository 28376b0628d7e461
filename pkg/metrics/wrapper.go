package metrics

// Wrapper adapts Metrics to the small consumer interfaces declared by the
// predictor and indicator packages, avoiding import cycles.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

// predictor.MetricsInterface

func (w *Wrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) PredictionErrorsInc() {
	w.m.PredictionErrors.Inc()
}

func (w *Wrapper) PredictionLatencyObserve(v float64) {
	w.m.PredictionLatency.Observe(v)
}

// indicators.MetricsTracker

func (w *Wrapper) IndicatorCalcsInc() {
	w.m.IndicatorCalculations.Inc()
}

func (w *Wrapper) IndicatorErrorsInc() {
	w.m.IndicatorErrors.Inc()
}

// Evaluation and storage hooks used by the pipeline.

func (w *Wrapper) EvalAccuracyObserve(v float64) {
	w.m.EvalAccuracy.Observe(v)
}

func (w *Wrapper) StoreWritesInc() {
	w.m.StoreWrites.Inc()
}

func (w *Wrapper) StoreErrorsInc() {
	w.m.StoreErrors.Inc()
}
