package storage

import (
	"fmt"
	"testing"
	"time"

	"marketpred/pkg/labels"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAndGetPredictions(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		record := PredictionRecord{
			Symbol:        "BTCUSDT",
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Probabilities: [3]float64{0.2, 0.3, 0.5},
			Class:         labels.Up,
			Direction:     labels.Direction(labels.Up),
			Indicators:    map[string]float64{"macd1": 1.2, "pct": 0.4},
		}
		if err := store.StorePrediction(record); err != nil {
			t.Fatalf("StorePrediction: %v", err)
		}
	}

	// Inclusive range covering records 1..3.
	got, err := store.GetPredictions("BTCUSDT", base.Add(time.Minute), base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, record := range got {
		if record.Symbol != "BTCUSDT" || record.Class != labels.Up {
			t.Errorf("record %d: unexpected contents %+v", i, record)
		}
		if i > 0 && record.Timestamp.Before(got[i-1].Timestamp) {
			t.Error("records must be ordered by timestamp")
		}
	}
	if got[0].Indicators["macd1"] != 1.2 {
		t.Errorf("indicator values not round-tripped: %+v", got[0].Indicators)
	}
}

func TestGetPredictions_SymbolIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, symbol := range []string{"BTCUSDT", "ETHUSDT"} {
		err := store.StorePrediction(PredictionRecord{
			Symbol:    symbol,
			Timestamp: ts,
			Class:     labels.Flat,
			Direction: labels.Direction(labels.Flat),
		})
		if err != nil {
			t.Fatalf("StorePrediction(%s): %v", symbol, err)
		}
	}

	got, err := store.GetPredictions("ETHUSDT", ts.Add(-time.Hour), ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "ETHUSDT" {
		t.Errorf("expected exactly the ETHUSDT record, got %+v", got)
	}
}

func TestStoreAndGetOutcomes(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)

	returns := []float64{-0.6, 0.1, 0.7}
	for i, r := range returns {
		err := store.StoreOutcome(OutcomeRecord{
			Symbol:    "BTCUSDT",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Return:    r,
			Label:     labels.ToCategorical(r),
		})
		if err != nil {
			t.Fatalf("StoreOutcome: %v", err)
		}
	}

	got, err := store.GetOutcomes("BTCUSDT", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetOutcomes: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(got))
	}
	wantLabels := []int{labels.Down, labels.Flat, labels.Up}
	for i, outcome := range got {
		if outcome.Label != wantLabels[i] {
			t.Errorf("outcome %d label = %d, want %d", i, outcome.Label, wantLabels[i])
		}
	}
}

func TestGetPredictions_EmptyRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.StorePrediction(PredictionRecord{Symbol: "BTCUSDT", Timestamp: ts}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetPredictions("BTCUSDT", ts.Add(time.Hour), ts.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records outside the range, got %d", len(got))
	}
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	done := make(chan error, 10)
	for g := 0; g < 10; g++ {
		go func(g int) {
			done <- store.StorePrediction(PredictionRecord{
				Symbol:    "BTCUSDT",
				Timestamp: base.Add(time.Duration(g) * time.Second),
				Direction: labels.Direction(labels.Flat),
			})
		}(g)
	}
	for g := 0; g < 10; g++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent write failed: %v", err)
		}
	}

	got, err := store.GetPredictions("BTCUSDT", base, base.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 records, got %d", len(got))
	}
}

func TestNew_BadPath(t *testing.T) {
	t.Parallel()

	if _, err := New(fmt.Sprintf("/nonexistent-%d/nested", time.Now().UnixNano())); err == nil {
		t.Error("expected error for unwritable data path")
	}
}
