package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLabels is returned when class weights are requested for no labels.
	ErrEmptyLabels = errors.New("ml: empty label set")
	// ErrInvalidLabel is returned for a label outside {0, 1}.
	ErrInvalidLabel = errors.New("ml: label must be 0 or 1")
)

// LabelCounts holds the per-class row counts of a training set.
type LabelCounts struct {
	Negative int // label 0, on time
	Positive int // label 1, delayed
}

// Total returns the number of labelled rows.
func (c LabelCounts) Total() int {
	return c.Negative + c.Positive
}

// CountLabels tallies binary labels.
func CountLabels(labels []int) (LabelCounts, error) {
	var c LabelCounts
	for i, y := range labels {
		switch y {
		case 0:
			c.Negative++
		case 1:
			c.Positive++
		default:
			return LabelCounts{}, fmt.Errorf("label %d has value %d: %w", i, y, ErrInvalidLabel)
		}
	}
	return c, nil
}

// ClassWeights derives inverse-frequency weights: each class is weighted by
// the share of the other class, so the minority class weighs more.
func ClassWeights(c LabelCounts) (map[int]float64, error) {
	n := c.Total()
	if n == 0 {
		return nil, ErrEmptyLabels
	}
	return map[int]float64{
		0: float64(c.Positive) / float64(n),
		1: float64(c.Negative) / float64(n),
	}, nil
}
