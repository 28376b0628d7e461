package indicators

import "fmt"

// Indicator names as they appear in the computed set, in channel order.
const (
	MACD1 = "macd1"
	MACD2 = "macd2"
	Pct   = "pct"
	Var   = "var"
)

// Names returns the canonical channel ordering used when indicators are
// stacked into a feature tensor.
func Names() []string {
	return []string{MACD1, MACD2, Pct, Var}
}

// MetricsTracker receives indicator calculation telemetry.
type MetricsTracker interface {
	IndicatorCalcsInc()
	IndicatorErrorsInc()
}

// Engine computes the full indicator set over batched price series.
// The base window drives the derived moving-average windows: the two
// MACD-like spreads use window/2 vs window/6 and window vs window/3
// (integer division), and the rolling variance is normalized by the
// long moving average. A zero long moving average is deliberately
// unguarded; Inf/NaN propagate to the caller.
type Engine struct {
	window  int
	metrics MetricsTracker
}

// NewEngine creates an indicator engine with the given base window.
func NewEngine(window int) *Engine {
	return &Engine{window: window}
}

// NewEngineWithMetrics creates an indicator engine that reports calculation
// counts and errors.
func NewEngineWithMetrics(window int, m MetricsTracker) *Engine {
	return &Engine{window: window, metrics: m}
}

// Window returns the configured base window.
func (e *Engine) Window() int { return e.window }

// InputLength returns the common trailing-aligned output length for a
// series of the given time dimension.
func (e *Engine) InputLength(timeSteps int) int {
	return timeSteps - e.window + 1
}

// Compute returns the full trailing series for every indicator, each of
// length T - window + 1 per batch row.
func (e *Engine) Compute(prices [][]float64) (map[string][][]float64, error) {
	set, err := e.compute(prices)
	if err != nil && e.metrics != nil {
		e.metrics.IndicatorErrorsInc()
	}
	return set, err
}

// ComputeLatest returns only the most recent value of every indicator,
// one per batch row.
func (e *Engine) ComputeLatest(prices [][]float64) (map[string][]float64, error) {
	set, err := e.compute(prices)
	if err != nil {
		if e.metrics != nil {
			e.metrics.IndicatorErrorsInc()
		}
		return nil, err
	}
	latest := make(map[string][]float64, len(set))
	for name, rows := range set {
		vals := make([]float64, len(rows))
		for i, row := range rows {
			vals[i] = row[len(row)-1]
		}
		latest[name] = vals
	}
	return latest, nil
}

func (e *Engine) compute(prices [][]float64) (map[string][][]float64, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("empty price batch")
	}
	timeSteps := len(prices[0])
	for i, row := range prices {
		if len(row) != timeSteps {
			return nil, fmt.Errorf("ragged price batch: row %d has %d steps, row 0 has %d", i, len(row), timeSteps)
		}
	}
	n := e.InputLength(timeSteps)
	if n < 1 {
		return nil, fmt.Errorf("window %d exceeds time dimension %d", e.window, timeSteps)
	}

	data := make(map[string][][]float64, 4)

	maLong, err := MovingAverage(prices, e.window/2)
	if err != nil {
		return nil, fmt.Errorf("macd1 long leg: %w", err)
	}
	maShort, err := MovingAverage(prices, e.window/6)
	if err != nil {
		return nil, fmt.Errorf("macd1 short leg: %w", err)
	}
	data[MACD1] = spread(tail(maShort, n), tail(maLong, n))

	maLong, err = MovingAverage(prices, e.window)
	if err != nil {
		return nil, fmt.Errorf("macd2 long leg: %w", err)
	}
	maShort, err = MovingAverage(prices, e.window/3)
	if err != nil {
		return nil, fmt.Errorf("macd2 short leg: %w", err)
	}
	data[MACD2] = spread(tail(maShort, n), tail(maLong, n))

	pct, err := PercentChange(prices)
	if err != nil {
		return nil, fmt.Errorf("percent change: %w", err)
	}
	data[Pct] = scale(tail(pct, n), 100)

	vr, err := RollingVariance(prices, e.window)
	if err != nil {
		return nil, fmt.Errorf("rolling variance: %w", err)
	}
	data[Var] = scale(ratio(vr, maLong), 100)

	if e.metrics != nil {
		e.metrics.IndicatorCalcsInc()
	}
	return data, nil
}

// Stack arranges a computed indicator set into a batch x time x channels
// feature tensor using the canonical channel order from Names.
func Stack(set map[string][][]float64) ([][][]float64, error) {
	names := Names()
	first, ok := set[names[0]]
	if !ok {
		return nil, fmt.Errorf("indicator set missing %q", names[0])
	}
	batch := len(first)
	steps := len(first[0])
	out := make([][][]float64, batch)
	for b := 0; b < batch; b++ {
		out[b] = make([][]float64, steps)
		for t := 0; t < steps; t++ {
			out[b][t] = make([]float64, len(names))
		}
	}
	for c, name := range names {
		rows, ok := set[name]
		if !ok {
			return nil, fmt.Errorf("indicator set missing %q", name)
		}
		if len(rows) != batch {
			return nil, fmt.Errorf("indicator %q batch size %d, want %d", name, len(rows), batch)
		}
		for b, row := range rows {
			if len(row) != steps {
				return nil, fmt.Errorf("indicator %q row %d length %d, want %d", name, b, len(row), steps)
			}
			for t, v := range row {
				out[b][t][c] = v
			}
		}
	}
	return out, nil
}

// tail keeps the trailing n columns of every row.
func tail(rows [][]float64, n int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = row[len(row)-n:]
	}
	return out
}

// spread computes (short - long) / long * 100 elementwise.
func spread(short, long [][]float64) [][]float64 {
	out := make([][]float64, len(short))
	for i := range short {
		row := make([]float64, len(short[i]))
		for t := range row {
			row[t] = (short[i][t] - long[i][t]) / long[i][t] * 100
		}
		out[i] = row
	}
	return out
}

func ratio(num, den [][]float64) [][]float64 {
	out := make([][]float64, len(num))
	for i := range num {
		row := make([]float64, len(num[i]))
		for t := range row {
			row[t] = num[i][t] / den[i][t]
		}
		out[i] = row
	}
	return out
}

func scale(rows [][]float64, k float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for t, v := range row {
			scaled[t] = v * k
		}
		out[i] = scaled
	}
	return out
}
