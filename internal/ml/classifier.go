package ml

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"flight-delay/internal/features"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrModelNotTrained is returned by Predict before any successful Fit or Restore.
	ErrModelNotTrained = errors.New("ml: model not trained")
	// ErrFeatureWidth is returned when a matrix does not match the trained width.
	ErrFeatureWidth = errors.New("ml: feature width mismatch")
)

// TrainedModel is the immutable result of a fit. It is what gets persisted and
// what serving predicts with.
type TrainedModel struct {
	Coefficients      []float64       `json:"coefficients"`
	Intercept         float64         `json:"intercept"`
	ClassWeights      map[int]float64 `json:"class_weights"`
	Features          []string        `json:"features"`
	VocabularyVersion string          `json:"vocabulary_version"`
	TrainedAt         time.Time       `json:"trained_at"`
	TrainingRows      int             `json:"training_rows"`
	Iterations        int             `json:"iterations"`
}

// Validate checks the model is internally consistent.
func (m *TrainedModel) Validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("model has no coefficients")
	}
	if len(m.Features) != len(m.Coefficients) {
		return fmt.Errorf("model has %d features but %d coefficients", len(m.Features), len(m.Coefficients))
	}
	if _, ok := m.ClassWeights[0]; !ok {
		return fmt.Errorf("model is missing class 0 weight")
	}
	if _, ok := m.ClassWeights[1]; !ok {
		return fmt.Errorf("model is missing class 1 weight")
	}
	return nil
}

// Probabilities returns P(delay) for every row of x.
func (m *TrainedModel) Probabilities(x mat.Matrix) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(m.Coefficients) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrFeatureWidth, len(m.Coefficients), cols)
	}
	probs := make([]float64, rows)
	for i := 0; i < rows; i++ {
		z := m.Intercept
		for j, w := range m.Coefficients {
			z += w * x.At(i, j)
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

// Predict thresholds Probabilities at 0.5.
func (m *TrainedModel) Predict(x mat.Matrix) ([]int, error) {
	probs, err := m.Probabilities(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Classifier is either untrained (no model) or holds one TrainedModel. Many
// Predict calls may run at once; Fit and Restore replace the model under the
// write lock.
type Classifier struct {
	mu      sync.RWMutex
	model   *TrainedModel
	metrics MetricsInterface
}

// NewClassifier returns an untrained classifier.
func NewClassifier() *Classifier {
	return NewClassifierWithMetrics(nil)
}

func NewClassifierWithMetrics(metrics MetricsInterface) *Classifier {
	return &Classifier{metrics: metrics}
}

// Fit recomputes the class weights from y, fits a fresh logistic regression
// and replaces any previous model. On error the previous state is kept.
func (c *Classifier) Fit(x mat.Matrix, y []int) (*TrainedModel, error) {
	rows, _ := x.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, rows, len(y))
	}

	counts, err := CountLabels(y)
	if err != nil {
		return nil, err
	}
	weights, err := ClassWeights(counts)
	if err != nil {
		return nil, err
	}

	lr := NewLogisticRegression(weights)
	if err := lr.Fit(x, y); err != nil {
		return nil, fmt.Errorf("fit logistic regression: %w", err)
	}

	model := &TrainedModel{
		Coefficients:      lr.Coefficients(),
		Intercept:         lr.Intercept(),
		ClassWeights:      weights,
		Features:          featureNamesFor(x),
		VocabularyVersion: features.VocabularyVersion,
		TrainedAt:         time.Now().UTC(),
		TrainingRows:      rows,
		Iterations:        lr.Iterations(),
	}

	c.mu.Lock()
	c.model = model
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.MLTrainingsInc()
		c.metrics.MLClassWeightSet(0, weights[0])
		c.metrics.MLClassWeightSet(1, weights[1])
		c.metrics.MLModelAgeSet(0)
	}

	log.Info().
		Int("rows", rows).
		Int("on_time", counts.Negative).
		Int("delayed", counts.Positive).
		Float64("weight_0", weights[0]).
		Float64("weight_1", weights[1]).
		Int("iterations", model.Iterations).
		Msg("classifier trained")

	return model, nil
}

// Restore installs a previously persisted model.
func (c *Classifier) Restore(m *TrainedModel) error {
	if m == nil {
		return fmt.Errorf("restore: nil model")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	c.mu.Lock()
	c.model = m
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.MLModelAgeSet(time.Since(m.TrainedAt).Seconds())
		c.metrics.MLClassWeightSet(0, m.ClassWeights[0])
		c.metrics.MLClassWeightSet(1, m.ClassWeights[1])
	}
	return nil
}

// Model returns the trained model, or ErrModelNotTrained.
func (c *Classifier) Model() (*TrainedModel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model == nil {
		return nil, ErrModelNotTrained
	}
	return c.model, nil
}

// Predict labels every row of x with the current model.
func (c *Classifier) Predict(x mat.Matrix) ([]int, error) {
	if c == nil {
		return nil, ErrModelNotTrained
	}
	start := time.Now()

	model, err := c.Model()
	if err != nil {
		c.recordFailure()
		return nil, err
	}

	labels, err := model.Predict(x)
	if err != nil {
		c.recordFailure()
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.MLPredictionsInc()
		c.metrics.MLLatencyObserve(time.Since(start).Seconds())
		c.metrics.MLDelayRateObserve(delayRate(labels))
	}
	return labels, nil
}

func (c *Classifier) recordFailure() {
	if c.metrics != nil {
		c.metrics.MLFailuresInc()
	}
}

// featureNamesFor uses the vocabulary names when the width matches it, and
// positional names otherwise.
func featureNamesFor(x mat.Matrix) []string {
	_, cols := x.Dims()
	if cols == features.Width() {
		return features.FeatureNames()
	}
	names := make([]string, cols)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j)
	}
	return names
}

// SameLayout reports whether the model was trained on the current vocabulary.
func (m *TrainedModel) SameLayout() bool {
	return m.VocabularyVersion == features.VocabularyVersion &&
		slices.Equal(m.Features, features.FeatureNames())
}

func delayRate(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	delayed := 0
	for _, l := range labels {
		delayed += l
	}
	return float64(delayed) / float64(len(labels))
}
