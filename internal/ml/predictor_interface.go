// Package ml provides the flight delay classifier: class-imbalance weighting,
// a weighted L2-regularized logistic regression, and the trained/untrained
// model state shared between the offline trainer and the serving process.
//
// Feature matrices come from the features package and must use its canonical
// vocabulary layout.
package ml

import "gonum.org/v1/gonum/mat"

// PredictorInterface is what the request layer depends on. Classifier
// implements it.
type PredictorInterface interface {
	// Predict returns one 0/1 label per row of x, in row order.
	Predict(x mat.Matrix) ([]int, error)
	// Model returns the model Predict currently uses, or ErrModelNotTrained.
	Model() (*TrainedModel, error)
}

// MetricsInterface defines metrics methods needed by the classifier
type MetricsInterface interface {
	MLPredictionsInc()
	MLFailuresInc()
	MLLatencyObserve(float64)
	MLModelAgeSet(float64)
	MLTrainingsInc()
	MLClassWeightSet(class int, weight float64)
	MLDelayRateObserve(float64)
}
