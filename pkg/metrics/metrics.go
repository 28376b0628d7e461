// Package metrics provides Prometheus metrics for the market predictor:
// prediction throughput and latency, indicator calculations, evaluation
// accuracy, and storage activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics exposed by the library.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal  prometheus.Counter   // Total number of forward passes
	PredictionErrors  prometheus.Counter   // Total number of rejected forward passes
	PredictionLatency prometheus.Histogram // Forward pass latency in seconds

	// Indicator metrics
	IndicatorCalculations prometheus.Counter // Total number of indicator set computations
	IndicatorErrors       prometheus.Counter // Total number of indicator computation errors

	// Evaluation metrics
	EvalAccuracy prometheus.Histogram // Distribution of evaluation batch accuracies

	// Storage metrics
	StoreWrites prometheus.Counter // Total number of persisted records
	StoreErrors prometheus.Counter // Total number of persistence failures
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry, which keeps
// metric collection isolated in tests.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of forward passes",
		}),
		PredictionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of forward passes rejected for invalid shapes",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Forward pass latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		IndicatorCalculations: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicator_calculations_total",
			Help: "Total number of indicator set computations",
		}),
		IndicatorErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicator_errors_total",
			Help: "Total number of indicator computation errors",
		}),
		EvalAccuracy: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eval_accuracy",
			Help:    "Distribution of evaluation batch accuracies",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		StoreWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Total number of persisted records",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of persistence failures",
		}),
	}
}
