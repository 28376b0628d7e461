// Package indicators computes hand-engineered technical indicators over
// batched price series: simple moving averages, percent change, MACD-style
// moving-average spreads, and rolling variance.
//
// Price series are batch x time matrices with the most recent observation
// last. All indicator outputs for a batch share the same trailing-aligned
// time index.
package indicators

import "fmt"

// MovingAverage computes a simple moving average per row.
// Output length per row is len(row) - window + 1.
func MovingAverage(prices [][]float64, window int) ([][]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("moving average window must be >= 1, got %d", window)
	}
	out := make([][]float64, len(prices))
	for i, row := range prices {
		if window > len(row) {
			return nil, fmt.Errorf("window %d exceeds series length %d", window, len(row))
		}
		n := len(row) - window + 1
		ma := make([]float64, n)
		var sum float64
		for t := 0; t < window; t++ {
			sum += row[t]
		}
		ma[0] = sum / float64(window)
		for t := 1; t < n; t++ {
			sum += row[t+window-1] - row[t-1]
			ma[t] = sum / float64(window)
		}
		out[i] = ma
	}
	return out, nil
}

// PercentChange computes the elementwise ratio of consecutive time steps
// minus one: (p[t+1] / p[t]) - 1. Output length per row is len(row) - 1.
func PercentChange(prices [][]float64) ([][]float64, error) {
	out := make([][]float64, len(prices))
	for i, row := range prices {
		if len(row) < 2 {
			return nil, fmt.Errorf("percent change needs at least 2 observations, got %d", len(row))
		}
		pct := make([]float64, len(row)-1)
		for t := 0; t < len(row)-1; t++ {
			pct[t] = row[t+1]/row[t] - 1
		}
		out[i] = pct
	}
	return out, nil
}

// RollingVariance computes the sample variance (Bessel-corrected) over each
// length-window slice per row. Output length per row is len(row) - window + 1.
func RollingVariance(prices [][]float64, window int) ([][]float64, error) {
	if window < 2 {
		return nil, fmt.Errorf("rolling variance window must be >= 2, got %d", window)
	}
	out := make([][]float64, len(prices))
	for i, row := range prices {
		if window > len(row) {
			return nil, fmt.Errorf("window %d exceeds series length %d", window, len(row))
		}
		n := len(row) - window + 1
		vs := make([]float64, n)
		for t := 0; t < n; t++ {
			var mean float64
			for k := t; k < t+window; k++ {
				mean += row[k]
			}
			mean /= float64(window)
			var ss float64
			for k := t; k < t+window; k++ {
				d := row[k] - mean
				ss += d * d
			}
			vs[t] = ss / float64(window-1)
		}
		out[i] = vs
	}
	return out, nil
}
