// Package page models the presentation targets a controller writes into.
//
// A Document is one page instance: a set of elements addressed by stable
// identifiers. Elements are created by the host when it lays the page out;
// controllers look them up once at activation and fail with ErrTargetNotFound
// when one is missing. Each element is written by exactly one owner.
package page

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTargetNotFound is returned when an expected presentation target is absent
var ErrTargetNotFound = errors.New("presentation target not found")

// Kind is the type of a presentation target
type Kind int

const (
	// TextKind holds plain text or markup
	TextKind Kind = iota
	// ChartKind holds rendered chart instances
	ChartKind
	// ContainerKind is a visibility-toggled region
	ContainerKind
)

func (k Kind) String() string {
	switch k {
	case TextKind:
		return "text"
	case ChartKind:
		return "chart"
	case ContainerKind:
		return "container"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Document is a single page instance
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
	forms    map[string]*Form
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		elements: make(map[string]*Element),
		forms:    make(map[string]*Form),
	}
}

// Add creates an element. Re-adding an id replaces the previous element.
func (d *Document) Add(id string, kind Kind) *Element {
	el := &Element{id: id, kind: kind}
	if kind == ContainerKind {
		el.hidden = true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[id] = el
	return el
}

// AddForm registers a form under its id
func (d *Document) AddForm(f *Form) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forms[f.ID()] = f
}

// Element retrieves an element by id, checking its kind
func (d *Document) Element(id string, kind Kind) (*Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el, exists := d.elements[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s #%s", ErrTargetNotFound, kind, id)
	}
	if el.kind != kind {
		return nil, fmt.Errorf("%w: #%s is a %s, expected %s", ErrTargetNotFound, id, el.kind, kind)
	}
	return el, nil
}

// Form retrieves a form by id
func (d *Document) Form(id string) (*Form, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, exists := d.forms[id]
	if !exists {
		return nil, fmt.Errorf("%w: form #%s", ErrTargetNotFound, id)
	}
	return f, nil
}

// Lookup returns the element with id regardless of kind
func (d *Document) Lookup(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	return el, ok
}
