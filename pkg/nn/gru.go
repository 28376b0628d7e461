package nn

import (
	"math"
	"math/rand"
)

// GRUCell is a single gated-recurrent-unit cell. One Step consumes one
// timestep of input for the whole batch and produces the next hidden state.
type GRUCell struct {
	In, Hidden int

	// Input-to-hidden and hidden-to-hidden weights per gate:
	// r (reset), z (update), n (candidate).
	Wir, Wiz, Win [][]float64 // Hidden x In
	Whr, Whz, Whn [][]float64 // Hidden x Hidden
	Bir, Biz, Bin []float64
	Bhr, Bhz, Bhn []float64
}

// NewGRUCell creates a GRU cell with weights drawn uniformly from
// [-1/sqrt(Hidden), 1/sqrt(Hidden)].
func NewGRUCell(in, hidden int, rnd *rand.Rand) *GRUCell {
	bound := 1 / math.Sqrt(float64(hidden))
	mat := func(rows, cols int) [][]float64 {
		m := make([][]float64, rows)
		for r := range m {
			row := make([]float64, cols)
			for c := range row {
				row[c] = (rnd.Float64()*2 - 1) * bound
			}
			m[r] = row
		}
		return m
	}
	vec := func(n int) []float64 {
		v := make([]float64, n)
		for i := range v {
			v[i] = (rnd.Float64()*2 - 1) * bound
		}
		return v
	}
	return &GRUCell{
		In: in, Hidden: hidden,
		Wir: mat(hidden, in), Wiz: mat(hidden, in), Win: mat(hidden, in),
		Whr: mat(hidden, hidden), Whz: mat(hidden, hidden), Whn: mat(hidden, hidden),
		Bir: vec(hidden), Biz: vec(hidden), Bin: vec(hidden),
		Bhr: vec(hidden), Bhz: vec(hidden), Bhn: vec(hidden),
	}
}

// InitialState returns a zero hidden state for the given batch size.
func (g *GRUCell) InitialState(batch int) [][]float64 {
	h := make([][]float64, batch)
	for i := range h {
		h[i] = make([]float64, g.Hidden)
	}
	return h
}

// Step advances the hidden state by one timestep:
//
//	r = sigmoid(Wir x + Bir + Whr h + Bhr)
//	z = sigmoid(Wiz x + Biz + Whz h + Bhz)
//	n = tanh(Win x + Bin + r * (Whn h + Bhn))
//	h' = (1 - z) * n + z * h
func (g *GRUCell) Step(x, h [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for b := range x {
		xr, hr := x[b], h[b]
		next := make([]float64, g.Hidden)
		for i := 0; i < g.Hidden; i++ {
			r := sigmoid(dot(g.Wir[i], xr) + g.Bir[i] + dot(g.Whr[i], hr) + g.Bhr[i])
			z := sigmoid(dot(g.Wiz[i], xr) + g.Biz[i] + dot(g.Whz[i], hr) + g.Bhz[i])
			n := math.Tanh(dot(g.Win[i], xr) + g.Bin[i] + r*(dot(g.Whn[i], hr)+g.Bhn[i]))
			next[i] = (1-z)*n + z*hr[i]
		}
		out[b] = next
	}
	return out
}

func dot(w, x []float64) float64 {
	var s float64
	for i, v := range x {
		s += w[i] * v
	}
	return s
}
