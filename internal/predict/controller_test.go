package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rewired-gh/fraudscope/internal/backend"
	"github.com/rewired-gh/fraudscope/internal/models"
	"github.com/rewired-gh/fraudscope/internal/page"
)

func newForm(t *testing.T) *page.Form {
	t.Helper()
	var controls []page.Control
	for _, name := range FieldNames() {
		c := page.Control{Name: name, Type: page.TextInput}
		switch name {
		case FieldAmount, FieldSenderAge, FieldReceiverAge, FieldHourOfDay:
			c.Type = page.NumberInput
		case FieldIsWeekend:
			c.Type = page.CheckboxInput
		}
		controls = append(controls, c)
	}
	return page.NewForm(DefaultTargets().Form, controls...)
}

func newDocument(t *testing.T) (*page.Document, *page.Form) {
	t.Helper()
	doc := page.NewDocument()
	form := newForm(t)
	doc.AddForm(form)
	doc.Add(DefaultTargets().ResultCard, page.ContainerKind)
	doc.Add(DefaultTargets().ResultText, page.TextKind)
	return doc, form
}

func fillForm(t *testing.T, form *page.Form) {
	t.Helper()
	values := map[string]string{
		FieldTransactionType:   "P2P",
		FieldTransactionStatus: "SUCCESS",
		FieldAmount:            "2500.5",
		FieldMerchantCategory:  "Shopping",
		FieldSenderAge:         "34",
		FieldReceiverAge:       "27",
		FieldSenderState:       "Delhi",
		FieldSenderBank:        "SBI",
		FieldReceiverBank:      "HDFC",
		FieldDeviceType:        "Android",
		FieldNetworkType:       "4G",
		FieldHourOfDay:         "23",
		FieldDayOfWeek:         "Saturday",
	}
	for name, v := range values {
		if err := form.Set(name, v); err != nil {
			t.Fatalf("Failed to set %s: %v", name, err)
		}
	}
}

func element(t *testing.T, doc *page.Document, id string) *page.Element {
	t.Helper()
	el, ok := doc.Lookup(id)
	if !ok {
		t.Fatalf("element %s missing", id)
	}
	return el
}

func submit(t *testing.T, c *Controller) Outcome {
	t.Helper()
	ch, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	outcome, ok := <-ch
	if !ok {
		t.Fatal("Outcome channel closed without a value")
	}
	return outcome
}

func newScoringBackend(t *testing.T, status int, body string) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL, 0)
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expectedKind OutcomeKind
		expectedText string
	}{
		{
			name:         "scenario C success",
			status:       http.StatusOK,
			body:         `{"decision": "fraud", "fraud_probability": 0.87}`,
			expectedKind: Success,
			expectedText: "Decision: fraud — Probability: 0.87",
		},
		{
			name:         "scenario D error body",
			status:       http.StatusBadRequest,
			body:         `{"error": "invalid amount"}`,
			expectedKind: Rejected,
			expectedText: "invalid amount",
		},
		{
			name:         "error status without error field",
			status:       http.StatusInternalServerError,
			body:         `{}`,
			expectedKind: Rejected,
			expectedText: FallbackErrorMessage,
		},
		{
			name:         "error status with unstructured body",
			status:       http.StatusBadGateway,
			body:         `<html>bad gateway</html>`,
			expectedKind: Rejected,
			expectedText: FallbackErrorMessage,
		},
		{
			name:         "success status without decision",
			status:       http.StatusOK,
			body:         `{"fraud_probability": 0.5}`,
			expectedKind: Rejected,
			expectedText: FallbackErrorMessage,
		},
		{
			name:         "backend decision passed verbatim",
			status:       http.StatusOK,
			body:         `{"decision": "FLAGGED", "fraud_probability": 0.9134, "fraud_flag": 1, "threshold": 0.5}`,
			expectedKind: Success,
			expectedText: "Decision: FLAGGED — Probability: 0.9134",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, form := newDocument(t)
			fillForm(t, form)

			c, err := New(doc, DefaultTargets(), newScoringBackend(t, tt.status, tt.body))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			card := element(t, doc, DefaultTargets().ResultCard)
			if card.Visible() {
				t.Fatal("Result area must start hidden")
			}

			outcome := submit(t, c)
			if outcome.Kind != tt.expectedKind {
				t.Errorf("Expected %s, got %s (%v)", tt.expectedKind, outcome.Kind, outcome.Err)
			}
			if !card.Visible() {
				t.Error("Result area must be revealed")
			}
			text := element(t, doc, DefaultTargets().ResultText)
			if got := text.Text(); got != tt.expectedText {
				t.Errorf("Expected %q, got %q", tt.expectedText, got)
			}
			if outcome.Message != tt.expectedText {
				t.Errorf("Outcome message %q does not match display", outcome.Message)
			}
			if outcome.ID == "" {
				t.Error("Outcome must carry a submission id")
			}
			if c.State() != Idle {
				t.Error("Controller must return to idle")
			}
		})
	}
}

func TestScenarioC_DecisionEmphasized(t *testing.T) {
	doc, form := newDocument(t)
	fillForm(t, form)
	c, err := New(doc, DefaultTargets(), newScoringBackend(t, http.StatusOK, `{"decision": "fraud", "fraud_probability": 0.87}`))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	submit(t, c)

	markup := element(t, doc, DefaultTargets().ResultText).HTML()
	if !strings.Contains(markup, "<strong>fraud</strong>") {
		t.Errorf("Expected emphasized decision, got %q", markup)
	}
}

func TestScenarioE_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	doc, form := newDocument(t)
	fillForm(t, form)
	c, err := New(doc, DefaultTargets(), backend.NewClient(url, 0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	outcome := submit(t, c)
	if outcome.Kind != Unreachable {
		t.Errorf("Expected unreachable, got %s", outcome.Kind)
	}
	if got := element(t, doc, DefaultTargets().ResultText).Text(); got != TransportFailureMessage {
		t.Errorf("Expected %q, got %q", TransportFailureMessage, got)
	}
}

func TestSubmitSendsWireRecord(t *testing.T) {
	tests := []struct {
		name            string
		weekend         bool
		amount          string
		expectedWeekend float64
		expectedAmount  any
	}{
		{"weekend checked", true, "2500.5", 1, 2500.5},
		{"weekend unchecked", false, "2500.5", 0, 2500.5},
		{"blank amount", false, "", 0, float64(0)},
		{"unparsable amount", true, "lots", 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received map[string]any
			var contentType string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				contentType = r.Header.Get("Content-Type")
				if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
					t.Errorf("Failed to decode request: %v", err)
				}
				_, _ = io.WriteString(w, `{"decision": "SAFE", "fraud_probability": 0.01}`)
			}))
			defer srv.Close()

			doc, form := newDocument(t)
			fillForm(t, form)
			if err := form.Set(FieldAmount, tt.amount); err != nil {
				t.Fatal(err)
			}
			if err := form.SetChecked(FieldIsWeekend, tt.weekend); err != nil {
				t.Fatal(err)
			}

			c, err := New(doc, DefaultTargets(), backend.NewClient(srv.URL, 0))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			submit(t, c)

			if contentType != "application/json" {
				t.Errorf("Expected JSON content type, got %q", contentType)
			}
			if received["is_weekend"] != tt.expectedWeekend {
				t.Errorf("Expected is_weekend %v, got %v", tt.expectedWeekend, received["is_weekend"])
			}
			if received["amount"] != tt.expectedAmount {
				t.Errorf("Expected amount %v, got %v", tt.expectedAmount, received["amount"])
			}
			if received["transaction type"] != "P2P" {
				t.Errorf("Expected literal \"transaction type\" key, got %v", received)
			}
			if _, ok := received["transaction_type"]; ok {
				t.Error("transaction_type must not be sent")
			}
			if len(received) != len(FieldNames()) {
				t.Errorf("Expected %d fields, got %d", len(FieldNames()), len(received))
			}
		})
	}
}

func TestExtractQueryFromSubmittedValues(t *testing.T) {
	form := newForm(t)
	form.Load(map[string][]string{
		FieldTransactionType: {"Bill Payment"},
		FieldHourOfDay:       {" 7 "},
		FieldIsWeekend:       {"on"},
	})

	q := ExtractQuery(form)
	if q.TransactionType != "Bill Payment" {
		t.Errorf("Unexpected transaction type %q", q.TransactionType)
	}
	if q.HourOfDay != 7 {
		t.Errorf("Expected hour 7, got %v", q.HourOfDay)
	}
	if q.IsWeekend != 1 {
		t.Errorf("Expected weekend 1, got %d", q.IsWeekend)
	}
	if q.SenderBank != "" || q.Amount != 0 {
		t.Errorf("Absent values must extract as blank, got %+v", q)
	}
}

func TestNewConfigurationErrors(t *testing.T) {
	t.Run("missing control", func(t *testing.T) {
		doc := page.NewDocument()
		doc.AddForm(page.NewForm(DefaultTargets().Form, page.Control{Name: FieldAmount, Type: page.NumberInput}))
		doc.Add(DefaultTargets().ResultCard, page.ContainerKind)
		doc.Add(DefaultTargets().ResultText, page.TextKind)

		if _, err := New(doc, DefaultTargets(), &stubScorer{}); !errors.Is(err, page.ErrMissingControl) {
			t.Errorf("Expected ErrMissingControl, got %v", err)
		}
	})

	t.Run("missing result area", func(t *testing.T) {
		doc := page.NewDocument()
		doc.AddForm(newForm(t))
		doc.Add(DefaultTargets().ResultText, page.TextKind)

		if _, err := New(doc, DefaultTargets(), &stubScorer{}); !errors.Is(err, page.ErrTargetNotFound) {
			t.Errorf("Expected ErrTargetNotFound, got %v", err)
		}
	})

	t.Run("missing form", func(t *testing.T) {
		doc := page.NewDocument()
		if _, err := New(doc, DefaultTargets(), &stubScorer{}); !errors.Is(err, page.ErrTargetNotFound) {
			t.Errorf("Expected ErrTargetNotFound, got %v", err)
		}
	})
}

// stubScorer holds every request until the test settles it
type stubScorer struct {
	mu      sync.Mutex
	pending []chan backend.PredictionOutcome
}

func (s *stubScorer) PredictAsync(ctx context.Context, query models.TransactionQuery) <-chan backend.PredictionOutcome {
	ch := make(chan backend.PredictionOutcome, 1)
	s.mu.Lock()
	s.pending = append(s.pending, ch)
	s.mu.Unlock()
	return ch
}

func (s *stubScorer) settle(i int, outcome backend.PredictionOutcome) {
	s.mu.Lock()
	ch := s.pending[i]
	s.mu.Unlock()
	ch <- outcome
	close(ch)
}

func success(decision string, probability float64) backend.PredictionOutcome {
	return backend.PredictionOutcome{Result: &models.PredictionResult{Decision: decision, FraudProbability: &probability}}
}

func TestConcurrentSubmissionsLastWriteWins(t *testing.T) {
	doc, form := newDocument(t)
	fillForm(t, form)
	scorer := &stubScorer{}
	c, err := New(doc, DefaultTargets(), scorer)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	second, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Second submit must not be blocked: %v", err)
	}
	if c.State() != Pending {
		t.Error("Expected pending state")
	}

	scorer.settle(1, success("SAFE", 0.1))
	<-second
	scorer.settle(0, success("FLAGGED", 0.9))
	<-first

	if got := element(t, doc, DefaultTargets().ResultText).Text(); got != "Decision: FLAGGED — Probability: 0.9" {
		t.Errorf("Expected the last settled response on display, got %q", got)
	}
	if c.State() != Idle {
		t.Error("Expected idle state")
	}
}

func TestSerializedSubmissions(t *testing.T) {
	doc, form := newDocument(t)
	fillForm(t, form)
	scorer := &stubScorer{}
	c, err := New(doc, DefaultTargets(), scorer, WithSerializedSubmissions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrSubmissionPending) {
		t.Errorf("Expected ErrSubmissionPending, got %v", err)
	}

	scorer.settle(0, success("SAFE", 0.2))
	<-first

	next, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit after settling failed: %v", err)
	}
	scorer.settle(1, success("SAFE", 0.3))
	<-next
}

func TestResultMarkupSanitizesDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		expected string
	}{
		{"plain", "FLAGGED", "Decision: <strong>FLAGGED</strong> — Probability: 0.5"},
		{"script dropped", "<script>alert(1)</script>SAFE", "Decision: <strong>SAFE</strong> — Probability: 0.5"},
		{"markup reduced to text", `<em onclick="x()">fraud</em>`, "Decision: <strong>fraud</strong> — Probability: 0.5"},
		{"handler stripped", `<img src=x onerror=alert(1)>fraud`, "Decision: <strong>fraud</strong> — Probability: 0.5"},
	}

	p := 0.5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResultMarkup(&models.PredictionResult{Decision: tt.decision, FraudProbability: &p})
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"transport", &backend.TransportError{Op: "predict", Err: errors.New("refused")}, TransportFailureMessage},
		{"status with error", &backend.StatusError{Op: "predict", StatusCode: 400, Body: &models.PredictionResult{Error: "bad"}}, "bad"},
		{"status without body", &backend.StatusError{Op: "predict", StatusCode: 500}, FallbackErrorMessage},
		{"other", errors.New("decode"), FallbackErrorMessage},
	}
	for _, tt := range tests {
		if got := FailureMessage(tt.err); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}
