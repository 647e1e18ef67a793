// Package chart describes charts declaratively and renders them.
//
// A Spec names the chart kind, the ordered category labels, and one or more
// datasets. A Renderer turns a Spec into an image; the go-chart backed
// SVGRenderer is the production implementation. New pairs a Spec with its
// rendered output as an Instance, which is what a page container displays.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the chart type
type Kind string

const (
	Doughnut Kind = "doughnut"
	Bar      Kind = "bar"
	Line     Kind = "line"
)

// Dataset is one series of values aligned with the Spec labels
type Dataset struct {
	Label            string
	Data             []float64
	BackgroundColors []string // one per label for doughnut charts, a single entry for bars
	BorderColor      string
	Fill             bool
	Tension          float64 // curve smoothing; 0 draws straight segments
}

// Spec is a declarative chart description
type Spec struct {
	Kind       Kind
	Labels     []string
	Datasets   []Dataset
	ShowLegend bool
}

// Validate checks that the kind is known and every dataset is aligned with the labels
func (s Spec) Validate() error {
	switch s.Kind {
	case Doughnut, Bar, Line:
	default:
		return fmt.Errorf("unknown chart kind %q", s.Kind)
	}
	if len(s.Datasets) == 0 {
		return errors.New("chart needs at least one dataset")
	}
	for i, ds := range s.Datasets {
		if len(ds.Data) != len(s.Labels) {
			return fmt.Errorf("dataset %d has %d values for %d labels", i, len(ds.Data), len(s.Labels))
		}
	}
	return nil
}

// Renderer draws a Spec. Implementations must not retain the Spec.
type Renderer interface {
	Render(spec Spec) ([]byte, error)
}

// Instance is one drawn chart. Every call to New produces a distinct Instance;
// nothing is updated in place.
type Instance struct {
	ID        string
	Spec      Spec
	Image     []byte
	CreatedAt time.Time
}

// New validates and renders spec, returning a fresh Instance
func New(r Renderer, spec Spec) (*Instance, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart spec: %w", err)
	}
	img, err := r.Render(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", spec.Kind, err)
	}
	return &Instance{
		ID:        uuid.New().String(),
		Spec:      spec,
		Image:     img,
		CreatedAt: time.Now(),
	}, nil
}
