package nn

import "math"

// BatchNorm normalizes each feature across the batch. In training mode it
// uses batch statistics and updates the running estimates; otherwise it
// normalizes with the running statistics, which makes single-row inference
// well defined.
type BatchNorm struct {
	Size        int
	Gamma, Beta []float64
	RunningMean []float64
	RunningVar  []float64
	Eps         float64
	Momentum    float64
	Training    bool
}

// NewBatchNorm creates a batch-normalization layer with unit scale, zero
// shift, and unit running variance.
func NewBatchNorm(size int) *BatchNorm {
	bn := &BatchNorm{
		Size:        size,
		Gamma:       make([]float64, size),
		Beta:        make([]float64, size),
		RunningMean: make([]float64, size),
		RunningVar:  make([]float64, size),
		Eps:         1e-5,
		Momentum:    0.1,
	}
	for i := 0; i < size; i++ {
		bn.Gamma[i] = 1
		bn.RunningVar[i] = 1
	}
	return bn
}

// Forward normalizes a batch of rows.
func (bn *BatchNorm) Forward(x [][]float64) [][]float64 {
	mean, variance := bn.RunningMean, bn.RunningVar
	if bn.Training && len(x) > 0 {
		mean, variance = batchStats(x, bn.Size)
		bn.updateRunning(mean, variance, len(x))
	}
	out := make([][]float64, len(x))
	for r, row := range x {
		y := make([]float64, bn.Size)
		for i := 0; i < bn.Size; i++ {
			y[i] = bn.Gamma[i]*(row[i]-mean[i])/math.Sqrt(variance[i]+bn.Eps) + bn.Beta[i]
		}
		out[r] = y
	}
	return out
}

// batchStats returns per-feature mean and biased variance over the batch.
func batchStats(x [][]float64, size int) (mean, variance []float64) {
	n := float64(len(x))
	mean = make([]float64, size)
	variance = make([]float64, size)
	for _, row := range x {
		for i := 0; i < size; i++ {
			mean[i] += row[i]
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	for _, row := range x {
		for i := 0; i < size; i++ {
			d := row[i] - mean[i]
			variance[i] += d * d
		}
	}
	for i := range variance {
		variance[i] /= n
	}
	return mean, variance
}

func (bn *BatchNorm) updateRunning(mean, variance []float64, n int) {
	// Running variance tracks the unbiased estimate.
	correction := 1.0
	if n > 1 {
		correction = float64(n) / float64(n-1)
	}
	for i := 0; i < bn.Size; i++ {
		bn.RunningMean[i] = (1-bn.Momentum)*bn.RunningMean[i] + bn.Momentum*mean[i]
		bn.RunningVar[i] = (1-bn.Momentum)*bn.RunningVar[i] + bn.Momentum*variance[i]*correction
	}
}
