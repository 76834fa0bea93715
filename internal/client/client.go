// Package client is a small HTTP client for the prediction API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flight-delay/internal/api"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("delay api: %d %s", e.Status, e.Detail)
}

type Client struct {
	rest *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	return &Client{rest: r}
}

// Health returns nil when the server answers {"status":"OK"}.
func (c *Client) Health(ctx context.Context) error {
	var health api.HealthResponse
	if err := c.get(ctx, "/health", &health); err != nil {
		return err
	}
	if health.Status != "OK" {
		return fmt.Errorf("delay api: unhealthy status %q", health.Status)
	}
	return nil
}

// Predict returns one label per flight, in order.
func (c *Client) Predict(ctx context.Context, flights []api.Flight) ([]int, error) {
	var out api.PredictResponse
	apiErr := &api.ErrorResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(api.PredictRequest{Flights: flights}).
		SetResult(&out).
		SetError(apiErr).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp, apiErr)
	}
	if len(out.Predict) != len(flights) {
		return nil, fmt.Errorf("delay api: %d predictions for %d flights", len(out.Predict), len(flights))
	}
	return out.Predict, nil
}

// ModelInfo describes the model the server is using.
func (c *Client) ModelInfo(ctx context.Context) (*api.ModelInfo, error) {
	var info api.ModelInfo
	if err := c.get(ctx, "/model/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	apiErr := &api.ErrorResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return newAPIError(resp, apiErr)
	}
	return nil
}

func newAPIError(resp *resty.Response, body *api.ErrorResponse) *APIError {
	detail := body.Detail
	if detail == "" {
		detail = strings.TrimSpace(resp.String())
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode())
	}
	return &APIError{Status: resp.StatusCode(), Detail: detail}
}
