// Package predict implements the prediction controller: it turns one form
// submission into a scoring request and shows the verdict or the failure in the
// result area.
//
// Submissions are not serialized unless WithSerializedSubmissions is given. When
// two submissions overlap, each writes the result area as its response arrives,
// so the last response to settle is what stays on screen.
package predict

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/rewired-gh/fraudscope/internal/backend"
	"github.com/rewired-gh/fraudscope/internal/logger"
	"github.com/rewired-gh/fraudscope/internal/models"
	"github.com/rewired-gh/fraudscope/internal/page"
)

// User-facing failure messages
const (
	FallbackErrorMessage    = "Prediction failed"
	TransportFailureMessage = "Failed to contact server."
)

// ErrSubmissionPending is returned by Submit when serialization is enabled and a
// submission is still in flight
var ErrSubmissionPending = errors.New("prediction submission already pending")

// resultPolicy keeps the emphasis around the decision and nothing else
var resultPolicy = bluemonday.NewPolicy().AllowElements("strong")

// Scorer sends a query to the scoring endpoint
type Scorer interface {
	PredictAsync(ctx context.Context, query models.TransactionQuery) <-chan backend.PredictionOutcome
}

// Targets names the form and result area the controller is bound to
type Targets struct {
	Form       string
	ResultCard string
	ResultText string
}

// DefaultTargets returns the identifiers used by the standard prediction layout
func DefaultTargets() Targets {
	return Targets{
		Form:       "prediction-form",
		ResultCard: "result-card",
		ResultText: "result-text",
	}
}

// State is the controller lifecycle state
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// OutcomeKind classifies how a submission settled
type OutcomeKind int

const (
	// Success means a decision was displayed
	Success OutcomeKind = iota
	// Rejected means the backend answered without a usable decision
	Rejected
	// Unreachable means no response was obtained
	Unreachable
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case Unreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome describes one settled submission
type Outcome struct {
	ID      string
	Kind    OutcomeKind
	Query   models.TransactionQuery
	Result  *models.PredictionResult
	Message string // text shown in the result area
	Err     error
}

// Option configures a Controller
type Option func(*Controller)

// WithSerializedSubmissions rejects a submission while another one is pending
func WithSerializedSubmissions() Option {
	return func(c *Controller) {
		c.serialize = true
	}
}

// Controller is the prediction controller for one page instance
type Controller struct {
	form   *page.Form
	card   *page.Element
	text   *page.Element
	scorer Scorer

	serialize bool
	pending   atomic.Int32
}

// New binds a controller to its form and result area. A missing target or a form
// without every expected control is a configuration error.
func New(doc *page.Document, targets Targets, scorer Scorer, opts ...Option) (*Controller, error) {
	form, err := doc.Form(targets.Form)
	if err != nil {
		return nil, fmt.Errorf("prediction configuration: %w", err)
	}
	if err := form.Require(FieldNames()...); err != nil {
		return nil, fmt.Errorf("prediction configuration: %w", err)
	}
	card, err := doc.Element(targets.ResultCard, page.ContainerKind)
	if err != nil {
		return nil, fmt.Errorf("prediction configuration: %w", err)
	}
	text, err := doc.Element(targets.ResultText, page.TextKind)
	if err != nil {
		return nil, fmt.Errorf("prediction configuration: %w", err)
	}

	c := &Controller{form: form, card: card, text: text, scorer: scorer}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State reports whether any submission is in flight
func (c *Controller) State() State {
	if c.pending.Load() > 0 {
		return Pending
	}
	return Idle
}

// Submit extracts the query from the form and sends it for scoring. The returned
// channel receives the outcome once the result area has been updated, then closes.
// There is no timeout: a hung request keeps the controller pending until ctx ends.
func (c *Controller) Submit(ctx context.Context) (<-chan Outcome, error) {
	if c.serialize {
		if !c.pending.CompareAndSwap(0, 1) {
			return nil, ErrSubmissionPending
		}
	} else {
		c.pending.Add(1)
	}

	id := uuid.NewString()
	query := ExtractQuery(c.form)
	logger.Debug("Submitting prediction %s", id)

	settled := c.scorer.PredictAsync(ctx, query)
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		outcome := c.present(id, query, <-settled)
		c.pending.Add(-1)
		out <- outcome
	}()
	return out, nil
}

func (c *Controller) present(id string, query models.TransactionQuery, res backend.PredictionOutcome) Outcome {
	outcome := Outcome{ID: id, Query: query, Result: res.Result, Err: res.Err}

	switch {
	case res.Err == nil && res.Result != nil:
		outcome.Kind = Success
		markup := ResultMarkup(res.Result)
		outcome.Message = c.showHTML(markup)
		logger.Info("Prediction %s: %s (%s)", id, res.Result.Decision, res.Result.ProbabilityText())

	case backend.IsTransport(res.Err):
		outcome.Kind = Unreachable
		outcome.Message = TransportFailureMessage
		c.showText(outcome.Message)
		logger.Warn("Prediction %s: %v", id, res.Err)

	default:
		outcome.Kind = Rejected
		outcome.Message = FailureMessage(res.Err)
		c.showText(outcome.Message)
		logger.Warn("Prediction %s rejected: %v", id, res.Err)
	}

	return outcome
}

func (c *Controller) showText(msg string) {
	c.card.Show()
	c.text.SetText(msg)
}

func (c *Controller) showHTML(markup string) string {
	c.card.Show()
	c.text.SetHTML(markup)
	return c.text.Text()
}

// ResultMarkup renders the success display with the decision emphasized.
// The decision comes from the backend as markup; the policy reduces it to text and emphasis.
func ResultMarkup(result *models.PredictionResult) string {
	markup := fmt.Sprintf("Decision: <strong>%s</strong> — Probability: %s",
		result.Decision, result.ProbabilityText())
	return resultPolicy.Sanitize(markup)
}

// FailureMessage picks the text shown for a failed submission: the backend's error
// text when its body carried one, the fixed contact failure message when no
// response was obtained, and the generic fallback otherwise.
func FailureMessage(err error) string {
	if backend.IsTransport(err) {
		return TransportFailureMessage
	}
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Message() != "" {
		return statusErr.Message()
	}
	return FallbackErrorMessage
}
