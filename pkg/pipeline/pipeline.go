// Package pipeline wires the indicator engine, predictor network, and
// evaluator into a single in-process flow: raw price series in, 3-class
// movement distributions and evaluation statistics out, with optional
// persistence of every prediction.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"marketpred/pkg/cfg"
	"marketpred/pkg/eval"
	"marketpred/pkg/indicators"
	"marketpred/pkg/labels"
	"marketpred/pkg/predictor"
	"marketpred/pkg/storage"
)

// MetricsInterface combines the telemetry hooks used across the pipeline.
type MetricsInterface interface {
	predictor.MetricsInterface
	indicators.MetricsTracker
	EvalAccuracyObserve(float64)
	StoreWritesInc()
	StoreErrorsInc()
}

// Pipeline feeds price series through the indicator engine and predictor.
// The store and metrics are optional; a nil store disables persistence.
type Pipeline struct {
	engine  *indicators.Engine
	pred    *predictor.MarketPredictor
	store   *storage.Store
	metrics MetricsInterface
	now     func() time.Time
}

// New builds a pipeline from settings. The predictor's input channel count
// must match the indicator set width.
func New(c cfg.Settings, store *storage.Store, metrics MetricsInterface) (*Pipeline, error) {
	if want := len(indicators.Names()); c.InputChannels != want {
		return nil, fmt.Errorf("predictor expects %d input channels to consume the indicator set, got %d", want, c.InputChannels)
	}

	var engine *indicators.Engine
	if metrics != nil {
		engine = indicators.NewEngineWithMetrics(c.Window, metrics)
	} else {
		engine = indicators.NewEngine(c.Window)
	}

	return &Pipeline{
		engine:  engine,
		pred:    predictor.NewWithMetrics(c, metrics),
		store:   store,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

// Predict classifies the given price series. For a recurrent predictor the
// full trailing indicator series feeds the network; otherwise only the most
// recent indicator values do. Each batch element's distribution is
// persisted when a store is configured.
func (p *Pipeline) Predict(symbol string, prices [][]float64) ([][]float64, error) {
	var dist [][]float64
	var latest map[string][]float64

	if p.pred.Recurrent() {
		set, err := p.engine.Compute(prices)
		if err != nil {
			return nil, fmt.Errorf("indicators: %w", err)
		}
		x, err := indicators.Stack(set)
		if err != nil {
			return nil, fmt.Errorf("stack indicators: %w", err)
		}
		dist, err = p.pred.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("forward: %w", err)
		}
		latest = lastValues(set)
	} else {
		var err error
		latest, err = p.engine.ComputeLatest(prices)
		if err != nil {
			return nil, fmt.Errorf("indicators: %w", err)
		}
		x := make([][]float64, len(prices))
		for b := range prices {
			row := make([]float64, 0, len(indicators.Names()))
			for _, name := range indicators.Names() {
				row = append(row, latest[name][b])
			}
			x[b] = row
		}
		dist, err = p.pred.ForwardStep(x)
		if err != nil {
			return nil, fmt.Errorf("forward: %w", err)
		}
	}

	p.persist(symbol, dist, latest)
	return dist, nil
}

// Evaluate classifies the price series and scores the result against the
// realized returns. Outcomes are persisted when a store is configured.
func (p *Pipeline) Evaluate(symbol string, prices [][]float64, truth []float64) (eval.Report, float64, error) {
	dist, err := p.Predict(symbol, prices)
	if err != nil {
		return eval.Report{}, 0, err
	}

	loss, err := eval.Loss(dist, truth)
	if err != nil {
		return eval.Report{}, 0, fmt.Errorf("loss: %w", err)
	}
	report, err := eval.Stats(dist, truth)
	if err != nil {
		return eval.Report{}, 0, fmt.Errorf("stats: %w", err)
	}

	if p.metrics != nil {
		p.metrics.EvalAccuracyObserve(report.Accuracy)
	}
	if p.store != nil {
		ts := p.now()
		for _, r := range truth {
			record := storage.OutcomeRecord{
				Symbol:    symbol,
				Timestamp: ts,
				Return:    r,
				Label:     labels.ToCategorical(r),
			}
			if err := p.store.StoreOutcome(record); err != nil {
				p.trackStoreError(err, symbol, "outcome")
			} else if p.metrics != nil {
				p.metrics.StoreWritesInc()
			}
			ts = ts.Add(time.Nanosecond) // distinct keys within one batch
		}
	}

	log.Debug().
		Str("symbol", symbol).
		Float64("loss", loss).
		Float64("accuracy", report.Accuracy).
		Float64("precision", report.Precision).
		Float64("recall", report.Recall).
		Msg("evaluation complete")

	return report, loss, nil
}

func (p *Pipeline) persist(symbol string, dist [][]float64, latest map[string][]float64) {
	if p.store == nil {
		return
	}
	ts := p.now()
	for b, row := range dist {
		class := argmax(row)
		record := storage.PredictionRecord{
			Symbol:        symbol,
			Timestamp:     ts,
			Probabilities: [3]float64{row[0], row[1], row[2]},
			Class:         class,
			Direction:     labels.Direction(class),
		}
		if latest != nil {
			record.Indicators = make(map[string]float64, len(latest))
			for name, vals := range latest {
				record.Indicators[name] = vals[b]
			}
		}
		if err := p.store.StorePrediction(record); err != nil {
			p.trackStoreError(err, symbol, "prediction")
		} else if p.metrics != nil {
			p.metrics.StoreWritesInc()
		}
		ts = ts.Add(time.Nanosecond)
	}
}

func (p *Pipeline) trackStoreError(err error, symbol, kind string) {
	if p.metrics != nil {
		p.metrics.StoreErrorsInc()
	}
	log.Error().Err(err).Str("symbol", symbol).Msgf("failed to persist %s record", kind)
}

func lastValues(set map[string][][]float64) map[string][]float64 {
	latest := make(map[string][]float64, len(set))
	for name, rows := range set {
		vals := make([]float64, len(rows))
		for i, row := range rows {
			vals[i] = row[len(row)-1]
		}
		latest[name] = vals
	}
	return latest
}

func argmax(row []float64) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}
