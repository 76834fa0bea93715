package features

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNoRecords is returned when a batch has no rows to build.
var ErrNoRecords = errors.New("features: no records")

var categoricalFields = []Field{FieldAirline, FieldFlightType, FieldMonth}

// BuildFeatures maps records onto the canonical vocabulary. The result always
// has Width() columns in vocabulary order and one row per record. Values
// outside the vocabulary contribute nothing.
func BuildFeatures(records []FlightRecord) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return project(dummies(records), len(records)), nil
}

// dummies expands every categorical field into one indicator column per value
// observed in the batch, keyed by the normalized column key.
func dummies(records []FlightRecord) map[string][]float64 {
	cols := make(map[string][]float64)
	for _, f := range categoricalFields {
		for row, r := range records {
			k := columnKey(f, r.value(f))
			col, ok := cols[k]
			if !ok {
				col = make([]float64, len(records))
				cols[k] = col
			}
			col[row] = 1
		}
	}
	return cols
}

// project keeps the vocabulary columns in vocabulary order. Vocabulary columns
// missing from the batch stay zero; batch columns outside it are dropped.
func project(cols map[string][]float64, rows int) *mat.Dense {
	m := mat.NewDense(rows, Width(), nil)
	for j, ind := range canonicalVocabulary {
		col, ok := cols[ind.key()]
		if !ok {
			continue
		}
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m
}

// IsDelayed applies the label rule to an elapsed time in minutes.
func IsDelayed(elapsedMinutes float64) bool {
	return elapsedMinutes > DelayThreshold.Minutes()
}

// BuildLabels derives the delay label for every record. A timestamp that does
// not match TimestampLayout fails the whole batch.
func BuildLabels(records []FlightRecord) ([]int, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	labels := make([]int, len(records))
	for i, r := range records {
		minutes, err := r.ElapsedMinutes()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if IsDelayed(minutes) {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Preprocess is the single entry point shared by training and serving. Labels
// are only built, and only returned, when training is true.
func Preprocess(records []FlightRecord, training bool) (*mat.Dense, []int, error) {
	x, err := BuildFeatures(records)
	if err != nil {
		return nil, nil, err
	}
	if !training {
		return x, nil, nil
	}
	y, err := BuildLabels(records)
	if err != nil {
		return nil, nil, fmt.Errorf("build labels: %w", err)
	}
	return x, y, nil
}
