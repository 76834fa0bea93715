package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultC             = 1.0
	defaultMaxIterations = 100
	defaultTolerance     = 1e-8
	maxLineSearchSteps   = 30
)

var (
	// ErrShapeMismatch is returned when features and labels disagree on rows.
	ErrShapeMismatch = errors.New("ml: feature rows and labels differ")
	// ErrSingleClass is returned when the training labels contain one class only.
	ErrSingleClass = errors.New("ml: training labels contain a single class")
	// ErrNotConverged is returned when the solver cannot make progress.
	ErrNotConverged = errors.New("ml: logistic regression did not converge")
)

// LogisticRegression is a binary logistic regression with per-class sample
// weights and an L2 penalty on the coefficients (not the intercept). The
// objective matches the usual C-parameterized form:
//
//	0.5*||w||^2 + C * sum_i s(y_i) * logloss(y_i, sigmoid(x_i.w + b))
type LogisticRegression struct {
	C             float64
	MaxIterations int
	Tolerance     float64
	ClassWeight   map[int]float64

	coef       []float64
	intercept  float64
	iterations int
}

// NewLogisticRegression returns a regression with default regularization and
// the given class weights.
func NewLogisticRegression(classWeight map[int]float64) *LogisticRegression {
	return &LogisticRegression{
		C:             defaultC,
		MaxIterations: defaultMaxIterations,
		Tolerance:     defaultTolerance,
		ClassWeight:   classWeight,
	}
}

// Fit solves for the coefficients with Newton-Raphson and a backtracking line
// search. Any previous solution is discarded.
func (lr *LogisticRegression) Fit(x mat.Matrix, y []int) error {
	n, p := x.Dims()
	if n != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, n, len(y))
	}
	if n == 0 {
		return ErrEmptyLabels
	}

	s := make([]float64, n)
	yf := make([]float64, n)
	seen := [2]bool{}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d has value %d: %w", i, label, ErrInvalidLabel)
		}
		seen[label] = true
		yf[i] = float64(label)
		s[i] = 1
		if w, ok := lr.ClassWeight[label]; ok {
			s[i] = w
		}
	}
	if !seen[0] || !seen[1] {
		return ErrSingleClass
	}

	// Augmented design matrix with a trailing column of ones for the intercept.
	d := p + 1
	xa := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xa.Set(i, j, x.At(i, j))
		}
		xa.Set(i, p, 1)
	}

	theta := mat.NewVecDense(d, nil)
	loss := lr.objective(xa, yf, s, theta)

	lr.coef, lr.intercept, lr.iterations = nil, 0, 0
	for it := 1; it <= lr.MaxIterations; it++ {
		grad, hess := lr.derivatives(xa, yf, s, theta)

		var chol mat.Cholesky
		if ok := chol.Factorize(hess); !ok {
			return fmt.Errorf("%w: hessian is not positive definite", ErrNotConverged)
		}
		step := mat.NewVecDense(d, nil)
		if err := chol.SolveVecTo(step, grad); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConverged, err)
		}
		stepNorm := mat.Norm(step, math.Inf(1))
		if stepNorm < lr.Tolerance {
			lr.iterations = it
			break
		}

		next := mat.NewVecDense(d, nil)
		alpha := 1.0
		var nextLoss float64
		accepted := false
		for ls := 0; ls < maxLineSearchSteps; ls++ {
			next.AddScaledVec(theta, -alpha, step)
			nextLoss = lr.objective(xa, yf, s, next)
			if nextLoss <= loss {
				accepted = true
				break
			}
			alpha /= 2
		}
		if !accepted {
			// No descent left at float precision: theta is already optimal.
			if stepNorm < math.Sqrt(lr.Tolerance) {
				lr.iterations = it
				break
			}
			return fmt.Errorf("%w: line search failed at iteration %d", ErrNotConverged, it)
		}

		theta.CopyVec(next)
		loss = nextLoss
		lr.iterations = it

		if alpha*stepNorm < lr.Tolerance {
			break
		}
	}

	lr.coef = make([]float64, p)
	for j := 0; j < p; j++ {
		lr.coef[j] = theta.AtVec(j)
	}
	lr.intercept = theta.AtVec(p)
	return nil
}

// objective evaluates the penalized weighted log loss at theta.
func (lr *LogisticRegression) objective(xa *mat.Dense, y, s []float64, theta *mat.VecDense) float64 {
	d := theta.Len()
	var z mat.VecDense
	z.MulVec(xa, theta)

	penalty := 0.0
	for j := 0; j < d-1; j++ {
		penalty += theta.AtVec(j) * theta.AtVec(j)
	}

	loss := 0.0
	for i := range y {
		zi := z.AtVec(i)
		if y[i] == 1 {
			loss += s[i] * softplus(-zi)
		} else {
			loss += s[i] * softplus(zi)
		}
	}
	return 0.5*penalty + lr.C*loss
}

// derivatives returns the gradient and Hessian of the objective at theta.
func (lr *LogisticRegression) derivatives(xa *mat.Dense, y, s []float64, theta *mat.VecDense) (*mat.VecDense, *mat.SymDense) {
	n, d := xa.Dims()
	var z mat.VecDense
	z.MulVec(xa, theta)

	grad := mat.NewVecDense(d, nil)
	hess := mat.NewSymDense(d, nil)
	for i := 0; i < n; i++ {
		pi := sigmoid(z.AtVec(i))
		r := lr.C * s[i] * (pi - y[i])
		w := lr.C * s[i] * pi * (1 - pi)
		row := xa.RawRowView(i)
		for a := 0; a < d; a++ {
			if row[a] == 0 {
				continue
			}
			grad.SetVec(a, grad.AtVec(a)+r*row[a])
			for b := a; b < d; b++ {
				if row[b] == 0 {
					continue
				}
				hess.SetSym(a, b, hess.At(a, b)+w*row[a]*row[b])
			}
		}
	}

	for j := 0; j < d-1; j++ {
		grad.SetVec(j, grad.AtVec(j)+theta.AtVec(j))
		hess.SetSym(j, j, hess.At(j, j)+1)
	}
	return grad, hess
}

// Coefficients returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coefficients() []float64 {
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// Intercept returns the fitted intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// Iterations returns the number of Newton steps taken by the last Fit.
func (lr *LogisticRegression) Iterations() int {
	return lr.iterations
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + exp(z)) without overflow.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
