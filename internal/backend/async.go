package backend

import (
	"context"

	"github.com/rewired-gh/fraudscope/internal/models"
)

// DashboardResult is the settled outcome of an analytics fetch: exactly one of
// Snapshot or Err is set.
type DashboardResult struct {
	Snapshot *models.AnalyticsSnapshot
	Err      error
}

// PredictionOutcome is the settled outcome of a scoring call: exactly one of
// Result or Err is set.
type PredictionOutcome struct {
	Result *models.PredictionResult
	Err    error
}

// FetchDashboardDataAsync starts an analytics fetch and returns a channel that
// receives exactly one DashboardResult and is then closed.
func (c *Client) FetchDashboardDataAsync(ctx context.Context) <-chan DashboardResult {
	ch := make(chan DashboardResult, 1)
	go func() {
		defer close(ch)
		snapshot, err := c.FetchDashboardData(ctx)
		ch <- DashboardResult{Snapshot: snapshot, Err: err}
	}()
	return ch
}

// PredictAsync starts a scoring call and returns a channel that receives exactly
// one PredictionOutcome and is then closed.
func (c *Client) PredictAsync(ctx context.Context, query models.TransactionQuery) <-chan PredictionOutcome {
	ch := make(chan PredictionOutcome, 1)
	go func() {
		defer close(ch)
		result, err := c.Predict(ctx, query)
		ch <- PredictionOutcome{Result: result, Err: err}
	}()
	return ch
}
