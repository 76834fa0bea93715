package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLogisticRegression_StationaryPoint(t *testing.T) {
	// Overlapping classes so the optimum is finite without the penalty too.
	x := mat.NewDense(8, 2, []float64{
		1, 0,
		1, 0,
		1, 1,
		0, 1,
		0, 1,
		0, 0,
		1, 1,
		0, 0,
	})
	y := []int{1, 1, 0, 0, 1, 0, 1, 0}

	lr := NewLogisticRegression(map[int]float64{0: 0.5, 1: 0.5})
	require.NoError(t, lr.Fit(x, y))

	xa := mat.NewDense(8, 3, nil)
	for i := 0; i < 8; i++ {
		xa.Set(i, 0, x.At(i, 0))
		xa.Set(i, 1, x.At(i, 1))
		xa.Set(i, 2, 1)
	}
	theta := mat.NewVecDense(3, []float64{lr.Coefficients()[0], lr.Coefficients()[1], lr.Intercept()})
	yf := []float64{1, 1, 0, 0, 1, 0, 1, 0}
	s := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}

	grad, _ := lr.derivatives(xa, yf, s, theta)
	assert.Less(t, mat.Norm(grad, math.Inf(1)), 1e-6)
	assert.Greater(t, lr.Coefficients()[0], 0.0)
	assert.Greater(t, lr.Iterations(), 0)
}

func TestLogisticRegression_ClassWeightShiftsIntercept(t *testing.T) {
	// A single constant feature: only the intercept and the weights decide.
	x := mat.NewDense(4, 1, nil)
	y := []int{0, 0, 0, 1}

	plain := NewLogisticRegression(nil)
	require.NoError(t, plain.Fit(x, y))
	assert.Less(t, plain.Intercept(), 0.0)

	balanced := NewLogisticRegression(map[int]float64{0: 0.25, 1: 0.75})
	require.NoError(t, balanced.Fit(x, y))
	assert.InDelta(t, 0.0, balanced.Intercept(), 1e-6)
}

func TestLogisticRegression_Errors(t *testing.T) {
	lr := NewLogisticRegression(nil)

	assert.ErrorIs(t, lr.Fit(mat.NewDense(2, 1, nil), []int{1}), ErrShapeMismatch)
	assert.ErrorIs(t, lr.Fit(mat.NewDense(2, 1, nil), []int{1, 1}), ErrSingleClass)
	assert.ErrorIs(t, lr.Fit(mat.NewDense(2, 1, nil), []int{1, 3}), ErrInvalidLabel)
}

func TestSoftplus_Stable(t *testing.T) {
	assert.InDelta(t, math.Log(2), softplus(0), 1e-12)
	assert.InDelta(t, 1000.0, softplus(1000), 1e-9)
	assert.InDelta(t, 0.0, softplus(-1000), 1e-12)
	assert.False(t, math.IsNaN(sigmoid(-1000)))
	assert.InDelta(t, 1.0, sigmoid(1000), 1e-12)
}
