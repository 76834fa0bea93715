package api

import (
	"time"

	"flight-delay/internal/features"
	"flight-delay/internal/ml"
)

// Flight is one flight in a prediction request. Field names follow the
// historical data set columns.
type Flight struct {
	Airline    string `json:"OPERA"`
	FlightType string `json:"TIPOVUELO"`
	Month      int    `json:"MES"`
}

func (f Flight) record() features.FlightRecord {
	return features.FlightRecord{
		Airline:    f.Airline,
		FlightType: f.FlightType,
		Month:      f.Month,
	}
}

type PredictRequest struct {
	Flights []Flight `json:"flights"`
}

// PredictResponse holds one label per requested flight, in request order.
type PredictResponse struct {
	Predict []int `json:"predict"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}

// ModelInfo describes the model being served.
type ModelInfo struct {
	VocabularyVersion string            `json:"vocabulary_version"`
	Features          []string          `json:"features"`
	Intercept         float64           `json:"intercept"`
	ClassWeights      map[int]float64   `json:"class_weights"`
	TrainedAt         time.Time         `json:"trained_at"`
	TrainingRows      int               `json:"training_rows"`
	Iterations        int               `json:"iterations"`
	Importance        []ml.FeatureStats `json:"importance"`
}
