// Package backend provides access to the fraud analytics backend: the analytics
// snapshot endpoint that feeds the dashboard and the scoring endpoint that judges
// a single transaction.
//
// Calls are never retried. Every failure is terminal for the call that produced it
// and is reported through one of two typed errors: TransportError when no response
// was obtained at all, and StatusError when the backend answered with a
// non-success status.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rewired-gh/fraudscope/internal/models"
)

// Default endpoint paths of the reference backend
const (
	DefaultDashboardPath = "/dashboard-data"
	DefaultPredictPath   = "/predict"
)

// maxBodyBytes bounds how much of a response body is read
const maxBodyBytes = 4 << 20

// Client provides access to the analytics and scoring endpoints
type Client struct {
	baseURL       string
	dashboardPath string
	predictPath   string
	httpClient    *http.Client
}

// ClientConfig holds optional client settings
type ClientConfig struct {
	DashboardPath string
	PredictPath   string
	Transport     http.RoundTripper
}

// NewClient creates a new backend client. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, cfgs ...ClientConfig) *Client {
	var cfg ClientConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.DashboardPath == "" {
		cfg.DashboardPath = DefaultDashboardPath
	}
	if cfg.PredictPath == "" {
		cfg.PredictPath = DefaultPredictPath
	}

	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		dashboardPath: cfg.DashboardPath,
		predictPath:   cfg.PredictPath,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
	}
}

// TransportError means the request never completed: no response was obtained
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError means the backend answered with a non-success status.
// Body is the decoded structured body when one was present.
type StatusError struct {
	Op         string
	StatusCode int
	Body       *models.PredictionResult
}

func (e *StatusError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// Message returns the body's error text, or "" when the body carried none
func (e *StatusError) Message() string {
	if e.Body == nil {
		return ""
	}
	return e.Body.Error
}

// IsTransport reports whether err is a transport-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// FetchDashboardData retrieves and validates the analytics snapshot.
// Any non-200 status, transport failure, or malformed payload is an error.
func (c *Client) FetchDashboardData(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	const op = "fetch dashboard data"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.dashboardPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	var snapshot models.AnalyticsSnapshot
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%s: failed to decode snapshot: %w", op, err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%s: malformed snapshot: %w", op, err)
	}

	return &snapshot, nil
}

// Predict submits a transaction for scoring.
// A 200 response yields the decoded result. A non-200 response yields a *StatusError
// whose Body holds the structured error body when the backend sent one.
func (c *Client) Predict(ctx context.Context, query models.TransactionQuery) (*models.PredictionResult, error) {
	const op = "predict"

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode query: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.predictPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var result models.PredictionResult
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			statusErr.Body = &result
		}
		return nil, statusErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%s: failed to decode result: %w", op, decodeErr)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%s: malformed result: %w", op, err)
	}

	return &result, nil
}
