package storage

import (
	"encoding/json"
	"fmt"

	"flight-delay/internal/ml"

	"go.etcd.io/bbolt"
)

const runsBucket = "runs" // Bucket name for training history

// RecordRun appends a training session to the history, keyed by its ID.
func (s *Store) RecordRun(run ml.TrainingRun) error {
	if s.readOnly {
		return fmt.Errorf("record run: store is read-only")
	}
	if run.ID == "" {
		return fmt.Errorf("record run: empty id")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		if err != nil {
			return fmt.Errorf("create runs bucket: %w", err)
		}
		return b.Put([]byte(run.ID), data)
	})
}

// Runs returns up to limit training sessions, newest first. A limit of zero
// or less returns all of them.
func (s *Store) Runs(limit int) ([]ml.TrainingRun, error) {
	runs := make([]ml.TrainingRun, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run ml.TrainingRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshal run %s: %w", k, err)
			}
			runs = append(runs, run)
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
