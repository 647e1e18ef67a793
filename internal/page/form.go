package page

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
)

// ErrMissingControl is returned when a form lacks an expected named control
var ErrMissingControl = errors.New("form control not found")

// ControlType is the input type of a form control
type ControlType int

const (
	TextInput ControlType = iota
	NumberInput
	SelectInput
	CheckboxInput
)

// Control declares a named form control
type Control struct {
	Name    string
	Type    ControlType
	Options []string // for SelectInput
	Value   string   // checkbox submission value; defaults to "on"
}

// Form is a set of named controls and their current values.
// Values follow browser form-data semantics: an unchecked checkbox contributes nothing,
// a checked one contributes its value ("on" unless declared otherwise).
type Form struct {
	id       string
	controls []Control
	byName   map[string]int

	mu      sync.RWMutex
	values  map[string]string
	checked map[string]bool
}

// NewForm creates a form with the declared controls, in layout order
func NewForm(id string, controls ...Control) *Form {
	f := &Form{
		id:      id,
		byName:  make(map[string]int, len(controls)),
		values:  make(map[string]string),
		checked: make(map[string]bool),
	}
	for _, c := range controls {
		if c.Type == CheckboxInput && c.Value == "" {
			c.Value = "on"
		}
		f.byName[c.Name] = len(f.controls)
		f.controls = append(f.controls, c)
	}
	return f
}

// ID returns the form identifier
func (f *Form) ID() string { return f.id }

// Controls returns the declared controls in layout order
func (f *Form) Controls() []Control {
	out := make([]Control, len(f.controls))
	copy(out, f.controls)
	return out
}

// HasControl reports whether a control with name is declared
func (f *Form) HasControl(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Require checks that every name is declared
func (f *Form) Require(names ...string) error {
	for _, name := range names {
		if !f.HasControl(name) {
			return fmt.Errorf("%w: #%s[name=%s]", ErrMissingControl, f.id, name)
		}
	}
	return nil
}

// Set assigns the raw value of a non-checkbox control
func (f *Form) Set(name, value string) error {
	idx, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingControl, name)
	}
	if f.controls[idx].Type == CheckboxInput {
		return fmt.Errorf("control %s is a checkbox; use SetChecked", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	return nil
}

// SetChecked sets the state of a checkbox control
func (f *Form) SetChecked(name string, checked bool) error {
	idx, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingControl, name)
	}
	if f.controls[idx].Type != CheckboxInput {
		return fmt.Errorf("control %s is not a checkbox", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked[name] = checked
	return nil
}

// Get returns the submitted value of a control and whether it contributes one
func (f *Form) Get(name string) (string, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return "", false
	}
	c := f.controls[idx]

	f.mu.RLock()
	defer f.mu.RUnlock()

	if c.Type == CheckboxInput {
		if !f.checked[name] {
			return "", false
		}
		return c.Value, true
	}
	return f.values[name], true
}

// Load fills the form from submitted form data. Checkboxes are checked when present.
// Names that match no declared control are ignored.
func (f *Form) Load(values url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.controls {
		raw, present := values[c.Name]
		if c.Type == CheckboxInput {
			f.checked[c.Name] = present
			continue
		}
		if present && len(raw) > 0 {
			f.values[c.Name] = raw[0]
		} else {
			delete(f.values, c.Name)
		}
	}
}

// Values returns the current value of every non-checkbox control
func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Checked reports whether a checkbox control is checked
func (f *Form) Checked(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.checked[name]
}
