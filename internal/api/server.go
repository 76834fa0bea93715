// Package api exposes the delay classifier over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flight-delay/internal/features"
	"flight-delay/internal/metrics"
	"flight-delay/internal/ml"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

const (
	welcomeMessage = "welcome to the api for predicting flight delay. Use the /health " +
		"endpoint to get server status, and the /predict endpoint to get your " +
		"prediction from input data."
	predictionFailedDetail = "Internal server error during prediction"
	notTrainedDetail       = "model is not trained"
	maxRequestBytes        = 1 << 20
)

type Options struct {
	Port         int
	CacheSize    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Metrics      *metrics.Wrapper
	Gatherer     prometheus.Gatherer // defaults to prometheus.DefaultGatherer
}

// Server provides the HTTP API for delay predictions.
type Server struct {
	predictor ml.PredictorInterface
	cache     *predictionCache
	metrics   *metrics.Wrapper
	router    *mux.Router
	server    *http.Server
}

// NewServer wires the routes around predictor. The predictor may still be
// untrained; prediction routes then answer 503.
func NewServer(predictor ml.PredictorInterface, opts Options) (*Server, error) {
	cache, err := newPredictionCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		predictor: predictor,
		cache:     cache,
		metrics:   opts.Metrics,
		router:    mux.NewRouter(),
	}
	s.router.Use(s.observe)
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/model/info", s.handleModelInfo).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.router,
		ReadHeaderTimeout: opts.ReadTimeout,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WelcomeResponse{Message: welcomeMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.validationFailed(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := validateRequest(req); err != nil {
		s.validationFailed(w, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.FlightsObserve(len(req.Flights))
	}

	labels, err := s.predict(req.Flights)
	switch {
	case errors.Is(err, ml.ErrModelNotTrained):
		log.Warn().Msg("prediction requested before a model was loaded")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Detail: notTrainedDetail})
		return
	case err != nil:
		log.Error().Err(err).Int("flights", len(req.Flights)).Msg("encountered error during prediction")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: predictionFailedDetail})
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{Predict: labels})
}

// predict answers cached rows directly and sends the rest to the predictor
// in one batch.
func (s *Server) predict(flights []Flight) ([]int, error) {
	model, err := s.predictor.Model()
	if err != nil {
		return nil, err
	}
	s.cache.bind(model)

	records := make([]features.FlightRecord, len(flights))
	for i, f := range flights {
		records[i] = f.record()
	}
	x, err := features.BuildFeatures(records)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	rows, cols := x.Dims()
	labels := make([]int, rows)
	keys := make([]string, rows)
	missing := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		keys[i] = rowKey(x, i)
		if label, ok := s.cache.get(keys[i]); ok {
			labels[i] = label
			continue
		}
		missing = append(missing, i)
	}
	if s.metrics != nil && s.cache != nil {
		s.metrics.CacheHitsAdd(rows - len(missing))
		s.metrics.CacheMissesAdd(len(missing))
	}
	if len(missing) == 0 {
		return labels, nil
	}

	pending := mat.NewDense(len(missing), cols, nil)
	for k, i := range missing {
		pending.SetRow(k, x.RawRowView(i))
	}
	predicted, err := s.predictor.Predict(pending)
	if err != nil {
		return nil, err
	}
	for k, i := range missing {
		labels[i] = predicted[k]
		s.cache.add(keys[i], predicted[k])
	}
	return labels, nil
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	model, err := s.predictor.Model()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Detail: notTrainedDetail})
		return
	}

	writeJSON(w, http.StatusOK, ModelInfo{
		VocabularyVersion: model.VocabularyVersion,
		Features:          model.Features,
		Intercept:         model.Intercept,
		ClassWeights:      model.ClassWeights,
		TrainedAt:         model.TrainedAt,
		TrainingRows:      model.TrainingRows,
		Iterations:        model.Iterations,
		Importance:        ml.FeatureImportance(model),
	})
}

func (s *Server) validationFailed(w http.ResponseWriter, detail string) {
	if s.metrics != nil {
		s.metrics.ValidationErrorInc()
	}
	log.Debug().Str("detail", detail).Msg("rejected prediction request")
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe counts requests per route template and status.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		if s.metrics != nil {
			s.metrics.RequestObserve(route, rec.status)
		}
		log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
