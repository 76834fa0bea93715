package ml

import (
	"sync"
	"testing"

	"flight-delay/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separableSet builds a data set where every delayed flight is operated by
// delayedAirline and every on-time flight by onTimeAirline.
func separableSet(t *testing.T, delayedAirline string, delayed int, onTimeAirline string, onTime int) (*mat.Dense, []int) {
	t.Helper()
	var records []features.FlightRecord
	var labels []int
	for i := 0; i < delayed; i++ {
		records = append(records, features.FlightRecord{Airline: delayedAirline, FlightType: "N", Month: 1})
		labels = append(labels, 1)
	}
	for i := 0; i < onTime; i++ {
		records = append(records, features.FlightRecord{Airline: onTimeAirline, FlightType: "N", Month: 2})
		labels = append(labels, 0)
	}
	x, err := features.BuildFeatures(records)
	require.NoError(t, err)
	return x, labels
}

func TestClassifier_PredictBeforeFit(t *testing.T) {
	metrics := &MockMetrics{}
	c := NewClassifierWithMetrics(metrics)

	inputs := []*mat.Dense{
		mat.NewDense(1, features.Width(), nil),
		mat.NewDense(3, features.Width(), nil),
		mat.NewDense(2, 4, nil),
	}
	for _, x := range inputs {
		labels, err := c.Predict(x)
		assert.ErrorIs(t, err, ErrModelNotTrained)
		assert.Nil(t, labels)
	}
	assert.Equal(t, len(inputs), metrics.failures)

	_, err := c.Model()
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestClassifier_NilSafety(t *testing.T) {
	var c *Classifier
	_, err := c.Predict(mat.NewDense(1, features.Width(), nil))
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestClassifier_RoundTripSeparable(t *testing.T) {
	x, y := separableSet(t, "Grupo LATAM", 6, "Sky Airline", 14)

	c := NewClassifier()
	model, err := c.Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 0.7, model.ClassWeights[1], 1e-12)
	assert.InDelta(t, 0.3, model.ClassWeights[0], 1e-12)
	assert.Equal(t, features.FeatureNames(), model.Features)
	assert.Equal(t, features.VocabularyVersion, model.VocabularyVersion)
	assert.Equal(t, 20, model.TrainingRows)
	assert.True(t, model.SameLayout())

	predicted, err := c.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, predicted)
}

func TestClassifier_RefitReplacesModel(t *testing.T) {
	xa, ya := separableSet(t, "Grupo LATAM", 5, "Sky Airline", 15)
	xb, yb := separableSet(t, "Sky Airline", 8, "Copa Air", 4)

	refit := NewClassifier()
	_, err := refit.Fit(xa, ya)
	require.NoError(t, err)
	second, err := refit.Fit(xb, yb)
	require.NoError(t, err)

	fresh := NewClassifier()
	only, err := fresh.Fit(xb, yb)
	require.NoError(t, err)

	assert.Equal(t, only.ClassWeights, second.ClassWeights)
	assert.InDeltaSlice(t, only.Coefficients, second.Coefficients, 1e-12)
	assert.InDelta(t, only.Intercept, second.Intercept, 1e-12)

	current, err := refit.Model()
	require.NoError(t, err)
	assert.Same(t, second, current)

	predicted, err := refit.Predict(xb)
	require.NoError(t, err)
	assert.Equal(t, yb, predicted)
}

func TestClassifier_FitFailures(t *testing.T) {
	t.Run("empty labels", func(t *testing.T) {
		c := NewClassifier()
		_, err := c.Fit(&mat.Dense{}, nil)
		assert.ErrorIs(t, err, ErrEmptyLabels)
	})

	t.Run("row mismatch", func(t *testing.T) {
		c := NewClassifier()
		_, err := c.Fit(mat.NewDense(3, features.Width(), nil), []int{0, 1})
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("invalid label", func(t *testing.T) {
		c := NewClassifier()
		_, err := c.Fit(mat.NewDense(2, features.Width(), nil), []int{0, 2})
		assert.ErrorIs(t, err, ErrInvalidLabel)
	})

	t.Run("single class", func(t *testing.T) {
		c := NewClassifier()
		x, _ := separableSet(t, "Grupo LATAM", 3, "Sky Airline", 0)
		_, err := c.Fit(x, []int{1, 1, 1})
		assert.ErrorIs(t, err, ErrSingleClass)
	})

	t.Run("failed refit keeps previous model", func(t *testing.T) {
		c := NewClassifier()
		x, y := separableSet(t, "Grupo LATAM", 4, "Sky Airline", 4)
		first, err := c.Fit(x, y)
		require.NoError(t, err)

		_, err = c.Fit(&mat.Dense{}, nil)
		require.Error(t, err)

		current, err := c.Model()
		require.NoError(t, err)
		assert.Same(t, first, current)
	})
}

func TestClassifier_WidthMismatch(t *testing.T) {
	x, y := separableSet(t, "Grupo LATAM", 4, "Sky Airline", 4)
	c := NewClassifier()
	_, err := c.Fit(x, y)
	require.NoError(t, err)

	_, err = c.Predict(mat.NewDense(1, features.Width()-1, nil))
	assert.ErrorIs(t, err, ErrFeatureWidth)
}

func TestClassifier_Restore(t *testing.T) {
	x, y := separableSet(t, "Grupo LATAM", 4, "Sky Airline", 8)
	trainer := NewClassifier()
	model, err := trainer.Fit(x, y)
	require.NoError(t, err)

	metrics := &MockMetrics{}
	server := NewClassifierWithMetrics(metrics)
	require.NoError(t, server.Restore(model))

	predicted, err := server.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, predicted)
	assert.Equal(t, model.ClassWeights[1], metrics.classWeights[1])

	assert.Error(t, server.Restore(nil))
	assert.Error(t, server.Restore(&TrainedModel{}))
}

func TestClassifier_MetricsTracking(t *testing.T) {
	metrics := &MockMetrics{}
	c := NewClassifierWithMetrics(metrics)
	x, y := separableSet(t, "Grupo LATAM", 2, "Sky Airline", 6)

	_, err := c.Fit(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.trainings)
	assert.InDelta(t, 0.75, metrics.classWeights[1], 1e-12)
	assert.InDelta(t, 0.25, metrics.classWeights[0], 1e-12)

	for i := 0; i < 3; i++ {
		_, err := c.Predict(x)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, metrics.predictions)
	require.Len(t, metrics.delayRates, 3)
	assert.InDelta(t, 0.25, metrics.delayRates[0], 1e-12)
}

func TestClassifier_ConcurrentPredict(t *testing.T) {
	metrics := &MockMetrics{}
	c := NewClassifierWithMetrics(metrics)
	x, y := separableSet(t, "Copa Air", 5, "Grupo LATAM", 10)
	_, err := c.Fit(x, y)
	require.NoError(t, err)

	numGoroutines := 10
	numCalls := 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numCalls; j++ {
				predicted, err := c.Predict(x)
				assert.NoError(t, err)
				assert.Equal(t, y, predicted)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, numGoroutines*numCalls, metrics.predictions)
}

func TestTrainedModel_Probabilities(t *testing.T) {
	m := &TrainedModel{
		Coefficients: []float64{2, -1},
		Intercept:    0,
		ClassWeights: map[int]float64{0: 0.5, 1: 0.5},
		Features:     []string{"a", "b"},
	}
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
	})

	probs, err := m.Probabilities(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs[0], 1e-12)
	assert.InDelta(t, sigmoid(2), probs[1], 1e-12)
	assert.InDelta(t, sigmoid(-1), probs[2], 1e-12)

	// p == 0.5 is not a delay
	labels, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, labels)
}
