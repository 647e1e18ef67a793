// Package web hosts the dashboard and prediction pages. Every request is a fresh
// page instance: the handler lays the page out, activates the controller bound
// to it, and renders whatever the controller wrote into its targets.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/rewired-gh/fraudscope/internal/chart"
	"github.com/rewired-gh/fraudscope/internal/dashboard"
	"github.com/rewired-gh/fraudscope/internal/diagnostics"
	"github.com/rewired-gh/fraudscope/internal/logger"
	"github.com/rewired-gh/fraudscope/internal/predict"
)

// Options tunes the page host
type Options struct {
	RateLimit            float64 // form submissions per second; 0 disables limiting
	RateBurst            int
	SerializeSubmissions bool
}

// Server serves the pages
type Server struct {
	source   dashboard.Source
	scorer   predict.Scorer
	renderer chart.Renderer
	diag     diagnostics.Channel

	predictOpts []predict.Option
	limiter     *rate.Limiter
	pages       *template.Template
}

// NewServer creates a page host. source and scorer are usually the same backend client.
func NewServer(source dashboard.Source, scorer predict.Scorer, renderer chart.Renderer, diag diagnostics.Channel, opts Options) (*Server, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	limit, burst := rate.Inf, opts.RateBurst
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if burst < 1 {
		burst = 1
	}

	s := &Server{
		source:   source,
		scorer:   scorer,
		renderer: renderer,
		diag:     diag,
		limiter:  rate.NewLimiter(limit, burst),
		pages:    pages,
	}
	if opts.SerializeSubmissions {
		s.predictOpts = append(s.predictOpts, predict.WithSerializedSubmissions())
	}
	return s, nil
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/", s.predictionPage)
	r.Get("/dashboard", s.dashboardPage)
	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(s.limiter))
		r.Post("/predict-form", s.submitPrediction)
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request) {
	doc := NewDashboardDocument()
	pipeline, err := dashboard.New(doc, dashboard.DefaultTargets(), s.source, s.renderer, s.diag)
	if err != nil {
		logger.Error("Failed to set up dashboard [%s]: %v", requestIDFromContext(r.Context()), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// failures are already with the diagnostic channel; the page renders what was committed
	<-pipeline.Initialize(r.Context())

	s.render(w, "dashboard.html", newDashboardView(doc))
}

func (s *Server) predictionPage(w http.ResponseWriter, r *http.Request) {
	doc, form := NewPredictionDocument()
	s.render(w, "index.html", newPredictionView(doc, form))
}

func (s *Server) submitPrediction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	doc, form := NewPredictionDocument()
	form.Load(r.PostForm)

	controller, err := predict.New(doc, predict.DefaultTargets(), s.scorer, s.predictOpts...)
	if err != nil {
		logger.Error("Failed to set up prediction [%s]: %v", requestIDFromContext(r.Context()), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settled, err := controller.Submit(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if outcome, ok := <-settled; ok {
		logger.Debug("Prediction %s settled as %s [%s]", outcome.ID, outcome.Kind, requestIDFromContext(r.Context()))
	}

	s.render(w, "index.html", newPredictionView(doc, form))
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("Failed to render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
