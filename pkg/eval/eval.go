// Package eval scores predicted movement distributions against realized
// returns: cross-entropy loss plus accuracy, precision, and recall.
package eval

import (
	"fmt"
	"math"

	"marketpred/pkg/labels"
)

// Report holds classification statistics for one evaluation batch.
// Precision and recall treat the "up" category as the positive class;
// either is NaN when its denominator is empty (no predicted positives,
// respectively no true positives).
type Report struct {
	Accuracy  float64
	Precision float64
	Recall    float64
}

// Loss computes the mean cross-entropy between predicted distributions and
// the categorical labels derived from the ground-truth returns:
// mean over the batch of -log p[label]. A zero probability on the true
// class propagates as +Inf.
func Loss(dist [][]float64, truth []float64) (float64, error) {
	if err := checkShapes(dist, truth); err != nil {
		return 0, err
	}
	var sum float64
	for i, row := range dist {
		class := labels.ToCategorical(truth[i])
		sum += -math.Log(row[class])
	}
	return sum / float64(len(dist)), nil
}

// Stats computes accuracy over exact category matches and precision/recall
// for the "up" class.
func Stats(dist [][]float64, truth []float64) (Report, error) {
	if err := checkShapes(dist, truth); err != nil {
		return Report{}, err
	}

	var matches, predPos, truthPos, correctPos float64
	for i, row := range dist {
		pred := argmax(row)
		actual := labels.ToCategorical(truth[i])
		if pred == actual {
			matches++
		}
		if pred == labels.Up {
			predPos++
		}
		if actual == labels.Up {
			truthPos++
		}
		if pred == labels.Up && actual == labels.Up {
			correctPos++
		}
	}

	return Report{
		Accuracy:  matches / float64(len(dist)),
		Precision: correctPos / predPos,
		Recall:    correctPos / truthPos,
	}, nil
}

func checkShapes(dist [][]float64, truth []float64) error {
	if len(dist) == 0 {
		return fmt.Errorf("empty batch")
	}
	if len(dist) != len(truth) {
		return fmt.Errorf("batch size mismatch: %d distributions, %d truths", len(dist), len(truth))
	}
	for i, row := range dist {
		if len(row) != 3 {
			return fmt.Errorf("distribution %d has %d classes, want 3", i, len(row))
		}
	}
	return nil
}

func argmax(row []float64) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}
