// Package labels converts continuous future returns into 3-way categorical
// labels for directional classification: down, flat, or up.
package labels

// Movement categories. The ordering matters: they index directly into the
// predictor's output distribution.
const (
	Down = 0
	Flat = 1
	Up   = 2
)

// Fixed cut points on the return scale. Returns at or below -0.3 are "down",
// returns above 0.3 are "up", everything in between is "flat".
const (
	downThreshold = -0.3
	upThreshold   = 0.3
)

// ToCategorical maps a continuous return to its movement category.
// The boundaries are inclusive on the low side: exactly -0.3 is Down,
// exactly 0.3 is Flat.
func ToCategorical(v float64) int {
	c := Down
	if v > downThreshold {
		c = Flat
	}
	if v > upThreshold {
		c = Up
	}
	return c
}

// ToCategoricalBatch labels a batch of returns.
func ToCategoricalBatch(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = ToCategorical(v)
	}
	return out
}

// Direction returns a human-readable name for a category, used in logs
// and persisted records.
func Direction(class int) string {
	switch class {
	case Down:
		return "DOWN"
	case Up:
		return "UP"
	default:
		return "FLAT"
	}
}
