// Package dashboard drives the analytics dashboard: one fetch of the analytics
// snapshot per activation, then KPI text and four independent charts.
//
// The pipeline is fire-once. A failed fetch renders nothing and is reported only
// to the diagnostic channel. KPI text is committed before any chart is drawn, so
// a chart failure leaves the KPIs in place; it ends the pass without drawing the
// remaining charts.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/rewired-gh/fraudscope/internal/backend"
	"github.com/rewired-gh/fraudscope/internal/chart"
	"github.com/rewired-gh/fraudscope/internal/diagnostics"
	"github.com/rewired-gh/fraudscope/internal/logger"
	"github.com/rewired-gh/fraudscope/internal/models"
	"github.com/rewired-gh/fraudscope/internal/page"
)

// diagnosticSource tags reports from this package
const diagnosticSource = "dashboard"

// ErrAlreadyActivated is returned by a second Initialize on the same pipeline
var ErrAlreadyActivated = errors.New("dashboard pipeline already activated")

// Source supplies the analytics snapshot
type Source interface {
	FetchDashboardDataAsync(ctx context.Context) <-chan backend.DashboardResult
}

// Targets names the presentation targets the pipeline writes into
type Targets struct {
	KPITotal     string
	KPIFraud     string
	KPIRate      string
	PieChart     string
	NetworkChart string
	TimeChart    string
	TypeChart    string
}

// DefaultTargets returns the identifiers used by the standard dashboard layout
func DefaultTargets() Targets {
	return Targets{
		KPITotal:     "kpi-total",
		KPIFraud:     "kpi-fraud",
		KPIRate:      "kpi-rate",
		PieChart:     "fraudPieChart",
		NetworkChart: "fraudNetworkChart",
		TimeChart:    "transactionsTimeChart",
		TypeChart:    "fraudTypeChart",
	}
}

// Pipeline is one dashboard activation bound to its page targets
type Pipeline struct {
	source   Source
	renderer chart.Renderer
	diag     diagnostics.Channel

	kpiTotal *page.Element
	kpiFraud *page.Element
	kpiRate  *page.Element
	pie      *page.Element
	network  *page.Element
	trend    *page.Element
	byType   *page.Element

	activated atomic.Bool
}

// New resolves every target in doc. A missing target is a configuration error and
// no pipeline is returned.
func New(doc *page.Document, targets Targets, source Source, renderer chart.Renderer, diag diagnostics.Channel) (*Pipeline, error) {
	if diag == nil {
		diag = diagnostics.LogChannel{}
	}
	p := &Pipeline{source: source, renderer: renderer, diag: diag}

	lookups := []struct {
		dst  **page.Element
		id   string
		kind page.Kind
	}{
		{&p.kpiTotal, targets.KPITotal, page.TextKind},
		{&p.kpiFraud, targets.KPIFraud, page.TextKind},
		{&p.kpiRate, targets.KPIRate, page.TextKind},
		{&p.pie, targets.PieChart, page.ChartKind},
		{&p.network, targets.NetworkChart, page.ChartKind},
		{&p.trend, targets.TimeChart, page.ChartKind},
		{&p.byType, targets.TypeChart, page.ChartKind},
	}
	for _, l := range lookups {
		el, err := doc.Element(l.id, l.kind)
		if err != nil {
			return nil, fmt.Errorf("dashboard configuration: %w", err)
		}
		*l.dst = el
	}

	return p, nil
}

// Initialize starts the single activation of the pipeline. The returned channel
// receives the outcome of the render pass (nil on full success) and is then closed.
// Failures are already reported to the diagnostic channel by the time they arrive.
func (p *Pipeline) Initialize(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if !p.activated.CompareAndSwap(false, true) {
		done <- ErrAlreadyActivated
		close(done)
		return done
	}

	go func() {
		defer close(done)
		done <- p.run(ctx)
	}()
	return done
}

func (p *Pipeline) run(ctx context.Context) error {
	logger.Debug("Loading dashboard data")

	result := <-p.source.FetchDashboardDataAsync(ctx)
	if result.Err != nil {
		err := fmt.Errorf("failed to load dashboard data: %w", result.Err)
		p.diag.Report(diagnosticSource, err)
		return err
	}
	if err := p.Render(result.Snapshot); err != nil {
		p.diag.Report(diagnosticSource, err)
		return err
	}

	logger.Debug("Dashboard rendered")
	return nil
}

// Render writes the KPI text and then draws the four charts in fixed order:
// pie, network, time series, type. The first chart failure ends the pass.
func (p *Pipeline) Render(snapshot *models.AnalyticsSnapshot) error {
	if snapshot == nil {
		return errors.New("no dashboard data")
	}
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("malformed dashboard data: %w", err)
	}

	p.UpdateKPIs(*snapshot.KPIs)

	steps := []struct {
		name   string
		render func() error
	}{
		{"fraud pie", func() error { return p.RenderFraudPie(*snapshot.FraudVsNonFraud) }},
		{"fraud by network", func() error { return p.RenderFraudByNetwork(snapshot.FraudByNetwork) }},
		{"transactions over time", func() error { return p.RenderTransactionsOverTime(snapshot.TransactionsOverTime) }},
		{"fraud by type", func() error { return p.RenderFraudByType(snapshot.FraudByTransactionType) }},
	}
	for _, step := range steps {
		if err := step.render(); err != nil {
			return fmt.Errorf("failed to render %s chart: %w", step.name, err)
		}
	}
	return nil
}

// UpdateKPIs writes the three KPI values as plain text, untransformed, with a
// percent suffix on the fraud rate
func (p *Pipeline) UpdateKPIs(kpis models.KPIs) {
	p.kpiTotal.SetText(FormatCount(kpis.TotalTransactions))
	p.kpiFraud.SetText(FormatCount(kpis.FraudTransactions))
	p.kpiRate.SetText(FormatRate(kpis.FraudRate))
}

// RenderFraudPie draws the fraud/non-fraud proportion chart into a new instance
func (p *Pipeline) RenderFraudPie(split models.FraudSplit) error {
	return p.mount(p.pie, FraudPieSpec(split))
}

// RenderFraudByNetwork draws the per-network fraud counts into a new instance
func (p *Pipeline) RenderFraudByNetwork(counts *models.OrderedCounts) error {
	return p.mount(p.network, FraudByNetworkSpec(counts))
}

// RenderTransactionsOverTime draws the transaction trend into a new instance
func (p *Pipeline) RenderTransactionsOverTime(counts *models.OrderedCounts) error {
	return p.mount(p.trend, TransactionsOverTimeSpec(counts))
}

// RenderFraudByType draws the per-type fraud counts into a new instance
func (p *Pipeline) RenderFraudByType(counts *models.OrderedCounts) error {
	return p.mount(p.byType, FraudByTypeSpec(counts))
}

func (p *Pipeline) mount(container *page.Element, spec chart.Spec) error {
	inst, err := chart.New(p.renderer, spec)
	if err != nil {
		return err
	}
	container.Mount(inst)
	return nil
}

// FormatCount renders an integer KPI
func FormatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FormatRate renders the fraud rate with a percent suffix and no rounding
func FormatRate(rate float64) string {
	return models.FormatNumber(rate) + "%"
}
