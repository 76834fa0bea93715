// Package storage persists the trained delay model in a BoltDB file.
//
// The file holds a single JSON-encoded parameter blob. The offline trainer
// opens it read-write and overwrites the blob; the serving process opens it
// read-only, loads the model once at start-up and closes it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flight-delay/internal/ml"

	"go.etcd.io/bbolt"
)

const (
	modelsBucket = "models"      // Bucket name for trained parameters
	modelKey     = "delay_model" // Key of the active parameter blob
)

var (
	// ErrModelNotFound is returned when the store holds no trained model.
	ErrModelNotFound = errors.New("storage: no trained model stored")
	// ErrVocabularyMismatch is returned when the stored model was trained on a
	// different feature vocabulary than the one compiled into this binary.
	ErrVocabularyMismatch = errors.New("storage: model trained on a different feature vocabulary")
)

// Store wraps the BoltDB file holding the trained parameters.
type Store struct {
	db       *bbolt.DB
	readOnly bool
}

// New opens (creating if needed) the parameter store at path for writing.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(modelsBucket)); err != nil {
			return fmt.Errorf("create models bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing parameter store for serving. A missing file
// is reported as ErrModelNotFound.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrModelNotFound, path)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db, readOnly: true}, nil
}

// Close closes the database. Calling it twice is safe.
func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// SaveModel replaces the stored parameters.
func (s *Store) SaveModel(m *ml.TrainedModel) error {
	if s.readOnly {
		return fmt.Errorf("save model: store is read-only")
	}
	if m == nil {
		return fmt.Errorf("save model: nil model")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		return b.Put([]byte(modelKey), data)
	})
}

// LoadModel reads the stored parameters and checks they match the current
// feature vocabulary.
func (s *Store) LoadModel() (*ml.TrainedModel, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		if b == nil {
			return ErrModelNotFound
		}
		v := b.Get([]byte(modelKey))
		if v == nil {
			return ErrModelNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var m ml.TrainedModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("stored model is invalid: %w", err)
	}
	if !m.SameLayout() {
		return nil, fmt.Errorf("%w: stored %s", ErrVocabularyMismatch, m.VocabularyVersion)
	}
	return &m, nil
}
