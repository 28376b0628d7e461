package nn

import "math/rand"

// block is one Dense + BatchNorm (+ optional ReLU) stage.
type block struct {
	dense *Dense
	norm  *BatchNorm
	relu  bool
}

// Sequential chains Dense + BatchNorm + ReLU stages built from a list of
// layer sizes. With omitLastActivation the final stage keeps its batch
// normalization but skips the ReLU.
type Sequential struct {
	blocks []block
	sizes  []int
}

// NewSequential builds a network from the given layer sizes, e.g.
// [4, 8, 16, 16] yields three stages.
func NewSequential(sizes []int, omitLastActivation bool, rnd *rand.Rand) *Sequential {
	s := &Sequential{sizes: sizes}
	for i := 0; i < len(sizes)-1; i++ {
		s.blocks = append(s.blocks, block{
			dense: NewDense(sizes[i], sizes[i+1], rnd),
			norm:  NewBatchNorm(sizes[i+1]),
			relu:  i < len(sizes)-2 || !omitLastActivation,
		})
	}
	return s
}

// Forward applies every stage in order to a batch of rows.
func (s *Sequential) Forward(x [][]float64) [][]float64 {
	for _, b := range s.blocks {
		x = b.norm.Forward(b.dense.Forward(x))
		if b.relu {
			x = ReLU(x)
		}
	}
	return x
}

// SetTraining switches every batch-normalization stage between batch and
// running statistics.
func (s *Sequential) SetTraining(training bool) {
	for _, b := range s.blocks {
		b.norm.Training = training
	}
}

// InSize returns the expected input width.
func (s *Sequential) InSize() int { return s.sizes[0] }

// OutSize returns the output width.
func (s *Sequential) OutSize() int { return s.sizes[len(s.sizes)-1] }
