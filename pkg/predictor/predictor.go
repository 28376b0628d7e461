// Package predictor assembles the movement-classification network: a
// feed-forward encoder, an optional per-timestep GRU aggregator, and a
// feed-forward decoder producing a 3-class probability distribution
// (down, flat, up).
package predictor

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"marketpred/pkg/cfg"
	"marketpred/pkg/nn"
)

// MetricsInterface defines the telemetry methods needed by the predictor.
type MetricsInterface interface {
	PredictionsInc()
	PredictionErrorsInc()
	PredictionLatencyObserve(float64)
}

// Layer widths of the encoder and decoder. The first encoder width is the
// configured number of input channels.
var (
	encoderSizes = []int{8, 16, 16}
	decoderSizes = []int{16, 16, 8, 3}
)

// MarketPredictor classifies short-term price movement from stacked
// indicator features. In recurrent mode it consumes a batch x time x
// channels tensor and aggregates encoded timesteps through a GRU cell;
// otherwise it consumes a single timestep's features per batch element.
type MarketPredictor struct {
	recurrent bool
	channels  int
	encoder   *nn.Sequential
	decoder   *nn.Sequential
	gru       *nn.GRUCell
	metrics   MetricsInterface
}

// New builds a predictor from the given settings.
func New(c cfg.Settings) *MarketPredictor {
	return NewWithMetrics(c, nil)
}

// NewWithMetrics builds a predictor that reports prediction counts and
// latency. A zero seed falls back to the wall clock.
func NewWithMetrics(c cfg.Settings, metrics MetricsInterface) *MarketPredictor {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	inputSizes := append([]int{c.InputChannels}, encoderSizes...)
	p := &MarketPredictor{
		recurrent: c.Recurrent,
		channels:  c.InputChannels,
		encoder:   nn.NewSequential(inputSizes, false, rnd),
		decoder:   nn.NewSequential(decoderSizes, true, rnd),
		metrics:   metrics,
	}
	if c.Recurrent {
		hidden := inputSizes[len(inputSizes)-1]
		p.gru = nn.NewGRUCell(hidden, hidden, rnd)
	}

	log.Info().
		Int("channels", c.InputChannels).
		Bool("recurrent", c.Recurrent).
		Int64("seed", seed).
		Msg("market predictor initialized")
	return p
}

// Recurrent reports whether the predictor aggregates timesteps with a GRU.
func (p *MarketPredictor) Recurrent() bool { return p.recurrent }

// Channels returns the expected number of input channels.
func (p *MarketPredictor) Channels() int { return p.channels }

// SetTraining switches batch normalization between batch and running
// statistics in every layer.
func (p *MarketPredictor) SetTraining(training bool) {
	p.encoder.SetTraining(training)
	p.decoder.SetTraining(training)
}

// Forward runs the recurrent path over a batch x time x channels tensor.
// Every timestep is encoded, the GRU hidden state starts at zero and is
// advanced once per timestep, and the final hidden state is decoded into a
// 3-class distribution per batch element.
func (p *MarketPredictor) Forward(x [][][]float64) ([][]float64, error) {
	done := p.track()
	defer done()

	if !p.recurrent {
		return p.fail(fmt.Errorf("predictor is non-recurrent; use ForwardStep"))
	}
	batch := len(x)
	if batch == 0 {
		return p.fail(fmt.Errorf("empty batch"))
	}
	steps := len(x[0])
	if steps == 0 {
		return p.fail(fmt.Errorf("empty time dimension"))
	}
	flat := make([][]float64, 0, batch*steps)
	for b, series := range x {
		if len(series) != steps {
			return p.fail(fmt.Errorf("ragged batch: row %d has %d timesteps, row 0 has %d", b, len(series), steps))
		}
		for t, features := range series {
			if len(features) != p.channels {
				return p.fail(fmt.Errorf("row %d timestep %d: %d channels, want %d", b, t, len(features), p.channels))
			}
			flat = append(flat, features)
		}
	}

	encoded := p.encoder.Forward(flat)

	hidden := p.gru.InitialState(batch)
	xt := make([][]float64, batch)
	for t := 0; t < steps; t++ {
		for b := 0; b < batch; b++ {
			xt[b] = encoded[b*steps+t]
		}
		hidden = p.gru.Step(xt, hidden)
	}

	return nn.Softmax(p.decoder.Forward(hidden)), nil
}

// ForwardStep runs the non-recurrent path over a single timestep's features
// per batch element.
func (p *MarketPredictor) ForwardStep(x [][]float64) ([][]float64, error) {
	done := p.track()
	defer done()

	if len(x) == 0 {
		return p.fail(fmt.Errorf("empty batch"))
	}
	for b, features := range x {
		if len(features) != p.channels {
			return p.fail(fmt.Errorf("row %d: %d channels, want %d", b, len(features), p.channels))
		}
	}
	return nn.Softmax(p.decoder.Forward(p.encoder.Forward(x))), nil
}

func (p *MarketPredictor) track() func() {
	start := time.Now()
	return func() {
		if p.metrics != nil {
			p.metrics.PredictionsInc()
			p.metrics.PredictionLatencyObserve(time.Since(start).Seconds())
		}
	}
}

func (p *MarketPredictor) fail(err error) ([][]float64, error) {
	if p.metrics != nil {
		p.metrics.PredictionErrorsInc()
	}
	return nil, err
}
