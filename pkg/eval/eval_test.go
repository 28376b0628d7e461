package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Distributions that pick classes 0, 1, 2 with high confidence.
var (
	downDist = []float64{0.8, 0.1, 0.1}
	flatDist = []float64{0.1, 0.8, 0.1}
	upDist   = []float64{0.1, 0.1, 0.8}
)

func TestLoss(t *testing.T) {
	t.Parallel()

	// Both rows put 0.8 on the true class.
	dist := [][]float64{upDist, downDist}
	truth := []float64{0.5, -0.5}

	loss, err := Loss(dist, truth)
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(0.8), loss, 1e-12)

	// Lower probability on the true class raises the loss.
	worse, err := Loss([][]float64{flatDist}, []float64{0.5})
	require.NoError(t, err)
	assert.Greater(t, worse, loss)
}

func TestLoss_ZeroProbability(t *testing.T) {
	t.Parallel()

	loss, err := Loss([][]float64{{1, 0, 0}}, []float64{0.5})
	require.NoError(t, err)
	assert.True(t, math.IsInf(loss, 1), "zero probability on the true class must yield +Inf")
}

func TestStats_Accuracy(t *testing.T) {
	t.Parallel()

	dist := [][]float64{upDist, downDist, flatDist, upDist}
	truth := []float64{0.5, -0.5, 0.0, -0.5} // last prediction is wrong

	report, err := Stats(dist, truth)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, report.Accuracy, 1e-12)
}

func TestStats_PrecisionRecall(t *testing.T) {
	t.Parallel()

	// Two predicted ups, one of them correct; two true ups.
	dist := [][]float64{upDist, upDist, downDist, flatDist}
	truth := []float64{0.5, -0.5, -0.5, 0.5}

	report, err := Stats(dist, truth)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Precision, 1e-12)
	assert.InDelta(t, 0.5, report.Recall, 1e-12)
}

func TestStats_PrecisionUndefinedWithoutPredictedPositives(t *testing.T) {
	t.Parallel()

	dist := [][]float64{downDist, flatDist}
	truth := []float64{0.5, 0.5}

	report, err := Stats(dist, truth)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(report.Precision), "precision must be NaN when nothing was predicted up")
	assert.Equal(t, 0.0, report.Recall)
	assert.Equal(t, 0.0, report.Accuracy)
}

func TestStats_RecallUndefinedWithoutTruePositives(t *testing.T) {
	t.Parallel()

	dist := [][]float64{upDist}
	truth := []float64{-0.5}

	report, err := Stats(dist, truth)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(report.Recall), "recall must be NaN when nothing was truly up")
	assert.Equal(t, 0.0, report.Precision)
}

func TestShapeErrors(t *testing.T) {
	t.Parallel()

	_, err := Loss([][]float64{}, []float64{})
	assert.Error(t, err)

	_, err = Loss([][]float64{upDist}, []float64{0.5, 0.1})
	assert.Error(t, err)

	_, err = Stats([][]float64{{0.5, 0.5}}, []float64{0.5})
	assert.Error(t, err)
}
