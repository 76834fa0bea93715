package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flight-delay/internal/api"
	"flight-delay/internal/features"
	"flight-delay/internal/ml"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T, trained bool) *httptest.Server {
	t.Helper()
	classifier := ml.NewClassifier()
	if trained {
		coef := make([]float64, features.Width())
		coef[8] = 3 // airline_Sky Airline
		require.NoError(t, classifier.Restore(&ml.TrainedModel{
			Coefficients:      coef,
			Intercept:         -1,
			ClassWeights:      map[int]float64{0: 0.2, 1: 0.8},
			Features:          features.FeatureNames(),
			VocabularyVersion: features.VocabularyVersion,
			TrainedAt:         time.Now().UTC(),
		}))
	}

	s, err := api.NewServer(classifier, api.Options{CacheSize: 8, Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Health(t *testing.T) {
	srv := newAPIServer(t, false)
	c := New(srv.URL, time.Second)

	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_HealthUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.HealthResponse{Status: "DEGRADED"})
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEGRADED")
}

func TestClient_Predict(t *testing.T) {
	srv := newAPIServer(t, true)
	c := New(srv.URL+"/", time.Second)

	labels, err := c.Predict(context.Background(), []api.Flight{
		{Airline: "Sky Airline", FlightType: "N", Month: 2},
		{Airline: "Iberia", FlightType: "I", Month: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, labels)
}

func TestClient_PredictValidationError(t *testing.T) {
	srv := newAPIServer(t, true)
	c := New(srv.URL, time.Second)

	_, err := c.Predict(context.Background(), []api.Flight{{Airline: "Sky Airline", FlightType: "N", Month: 13}})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "MES")
}

func TestClient_PredictUntrained(t *testing.T) {
	srv := newAPIServer(t, false)
	c := New(srv.URL, time.Second)

	_, err := c.Predict(context.Background(), []api.Flight{{Airline: "Sky Airline", FlightType: "N", Month: 1}})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestClient_PredictCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predict":[0]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Predict(context.Background(), []api.Flight{
		{Airline: "Iberia", FlightType: "I", Month: 1},
		{Airline: "Iberia", FlightType: "I", Month: 2},
	})
	assert.Error(t, err)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Health(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Detail)
}

func TestClient_ModelInfo(t *testing.T) {
	srv := newAPIServer(t, true)

	info, err := New(srv.URL, time.Second).ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, features.FeatureNames(), info.Features)
	assert.Equal(t, "airline_Sky Airline", info.Importance[0].Name)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newAPIServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL, time.Second).Health(ctx)
	assert.Error(t, err)
}
