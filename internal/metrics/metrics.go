// Package metrics provides Prometheus metrics collection for the flight delay
// service. It covers classifier predictions and training, the HTTP request
// layer and the prediction cache, exposed via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Classifier metrics
	MLPredictions prometheus.Counter   // Total number of predict calls served
	MLFailures    prometheus.Counter   // Total number of failed predict calls
	MLLatency     prometheus.Histogram // Predict latency in seconds
	MLModelAge    prometheus.Gauge     // Age of the loaded model in seconds
	MLTrainings   prometheus.Counter   // Total number of successful fits
	MLClassWeight *prometheus.GaugeVec // Class weights of the current model
	MLDelayRate   prometheus.Histogram // Share of rows predicted delayed per call

	// Request layer metrics
	HTTPRequests        *prometheus.CounterVec // Requests by route and status code
	ValidationErrors    prometheus.Counter     // Requests rejected with 400
	FlightsPerRequest   prometheus.Histogram   // Batch size of /predict requests
	PredictionCacheHits prometheus.Counter     // Rows answered from the cache
	PredictionCacheMiss prometheus.Counter     // Rows that needed the classifier
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		MLPredictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of predict calls served",
		}),
		MLFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_failures_total",
			Help: "Total number of failed predict calls",
		}),
		MLLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_latency_seconds",
			Help:    "Classifier predict latency in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		MLModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ml_model_age_seconds",
			Help: "Age of the loaded model in seconds",
		}),
		MLTrainings: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_trainings_total",
			Help: "Total number of successful classifier fits",
		}),
		MLClassWeight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ml_class_weight",
			Help: "Class weight of the current model",
		}, []string{"class"}),
		MLDelayRate: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_delay_rate",
			Help:    "Share of rows predicted delayed per predict call",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		ValidationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "validation_errors_total",
			Help: "Total number of requests rejected by input validation",
		}),
		FlightsPerRequest: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flights_per_request",
			Help:    "Number of flights in each prediction request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		PredictionCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_cache_hits_total",
			Help: "Total number of rows answered from the prediction cache",
		}),
		PredictionCacheMiss: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_cache_misses_total",
			Help: "Total number of rows that required the classifier",
		}),
	}
}
