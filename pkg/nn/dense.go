// Package nn implements the small neural-network building blocks used by
// the market predictor: affine layers, batch normalization, a gated
// recurrent unit cell, and the usual activations. Everything operates on
// plain float64 row-major batches.
package nn

import (
	"math"
	"math/rand"
)

// Dense is a fully-connected affine layer: y = Wx + b.
type Dense struct {
	In, Out int
	W       [][]float64 // Out x In
	B       []float64
}

// NewDense creates a dense layer with weights drawn uniformly from
// [-1/sqrt(In), 1/sqrt(In)].
func NewDense(in, out int, rnd *rand.Rand) *Dense {
	bound := 1 / math.Sqrt(float64(in))
	w := make([][]float64, out)
	for o := range w {
		row := make([]float64, in)
		for i := range row {
			row[i] = (rnd.Float64()*2 - 1) * bound
		}
		w[o] = row
	}
	b := make([]float64, out)
	for o := range b {
		b[o] = (rnd.Float64()*2 - 1) * bound
	}
	return &Dense{In: in, Out: out, W: w, B: b}
}

// Forward applies the layer to a batch of rows.
func (d *Dense) Forward(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for r, row := range x {
		y := make([]float64, d.Out)
		for o := 0; o < d.Out; o++ {
			s := d.B[o]
			w := d.W[o]
			for i, v := range row {
				s += w[i] * v
			}
			y[o] = s
		}
		out[r] = y
	}
	return out
}
