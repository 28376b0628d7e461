// Package storage persists the predictor's own outputs: prediction records
// and realized outcomes, keyed by symbol and timestamp for efficient
// time-range queries.
//
// BoltDB is the underlying engine; all operations are safe for concurrent
// use.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	predictionsBucket = "predictions" // Bucket for prediction records
	outcomesBucket    = "outcomes"    // Bucket for realized outcome records
)

// PredictionRecord captures one classified batch element: the predicted
// distribution, its argmax category, and the indicator values it was
// derived from.
type PredictionRecord struct {
	Symbol        string             `json:"symbol"`
	Timestamp     time.Time          `json:"timestamp"`
	Probabilities [3]float64         `json:"probabilities"`
	Class         int                `json:"class"`
	Direction     string             `json:"direction"`
	Indicators    map[string]float64 `json:"indicators,omitempty"`
}

// OutcomeRecord captures a realized return and the category it labels to,
// matched against earlier predictions during evaluation.
type OutcomeRecord struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Return    float64   `json:"return"`
	Label     int       `json:"label"`
}

// Store provides persistent storage for prediction history.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the database under dataPath and creates the
// required buckets.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "marketpred.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket)); err != nil {
			return fmt.Errorf("create predictions bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(outcomesBucket)); err != nil {
			return fmt.Errorf("create outcomes bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StorePrediction stores a prediction record under a "symbol_unixnano" key.
func (s *Store) StorePrediction(record PredictionRecord) error {
	return s.put(predictionsBucket, record.Symbol, record.Timestamp, record)
}

// StoreOutcome stores a realized outcome record under a "symbol_unixnano" key.
func (s *Store) StoreOutcome(record OutcomeRecord) error {
	return s.put(outcomesBucket, record.Symbol, record.Timestamp, record)
}

func (s *Store) put(bucket, symbol string, ts time.Time, v any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", bucket, err)
		}

		key := fmt.Sprintf("%s_%d", symbol, ts.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// getRecordsInRange scans one bucket for a symbol within an inclusive time
// range, applying unmarshalFunc to every raw value.
func (s *Store) getRecordsInRange(bucketName, symbol string, start, end time.Time, unmarshalFunc func([]byte) (any, error)) ([]any, error) {
	var records []any

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		c := b.Cursor()

		prefix := []byte(symbol + "_")
		startKey := []byte(fmt.Sprintf("%s_%d", symbol, start.UnixNano()))
		endKey := []byte(fmt.Sprintf("%s_%d", symbol, end.UnixNano()))

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k, endKey) <= 0; k, v = c.Next() {
			if !bytes.HasPrefix(k, prefix) {
				continue
			}

			record, err := unmarshalFunc(v)
			if err != nil {
				continue // Skip malformed records
			}
			records = append(records, record)
		}

		return nil
	})

	return records, err
}

// GetPredictions retrieves prediction records for a symbol within an
// inclusive time range, ordered by timestamp.
func (s *Store) GetPredictions(symbol string, start, end time.Time) ([]PredictionRecord, error) {
	records, err := s.getRecordsInRange(predictionsBucket, symbol, start, end, func(data []byte) (any, error) {
		var record PredictionRecord
		err := json.Unmarshal(data, &record)
		return record, err
	})
	if err != nil {
		return nil, err
	}

	predictions := make([]PredictionRecord, len(records))
	for i, record := range records {
		predictions[i] = record.(PredictionRecord)
	}
	return predictions, nil
}

// GetOutcomes retrieves outcome records for a symbol within an inclusive
// time range, ordered by timestamp.
func (s *Store) GetOutcomes(symbol string, start, end time.Time) ([]OutcomeRecord, error) {
	records, err := s.getRecordsInRange(outcomesBucket, symbol, start, end, func(data []byte) (any, error) {
		var record OutcomeRecord
		err := json.Unmarshal(data, &record)
		return record, err
	})
	if err != nil {
		return nil, err
	}

	outcomes := make([]OutcomeRecord, len(records))
	for i, record := range records {
		outcomes[i] = record.(OutcomeRecord)
	}
	return outcomes, nil
}
