package nn

import "math"

// ReLU applies max(0, x) elementwise.
func ReLU(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for r, row := range x {
		y := make([]float64, len(row))
		for i, v := range row {
			if v > 0 {
				y[i] = v
			}
		}
		out[r] = y
	}
	return out
}

// Softmax turns each row into a probability distribution. The row maximum
// is subtracted before exponentiation for numerical stability.
func Softmax(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for r, row := range x {
		y := make([]float64, len(row))
		maxV := math.Inf(-1)
		for _, v := range row {
			if v > maxV {
				maxV = v
			}
		}
		var sum float64
		for i, v := range row {
			y[i] = math.Exp(v - maxV)
			sum += y[i]
		}
		for i := range y {
			y[i] /= sum
		}
		out[r] = y
	}
	return out
}

func sigmoid(x float64) float64 {
	if x > 20 {
		return 1
	}
	if x < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}
