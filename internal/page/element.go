package page

import (
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/rewired-gh/fraudscope/internal/chart"
)

// Element is a single presentation target
type Element struct {
	id   string
	kind Kind

	mu      sync.RWMutex
	content string
	markup  bool
	written bool
	hidden  bool
	charts  []*chart.Instance
}

// ID returns the element identifier
func (e *Element) ID() string { return e.id }

// Kind returns the element kind
func (e *Element) Kind() Kind { return e.kind }

// SetText replaces the content with plain text
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = text
	e.markup = false
	e.written = true
}

// SetHTML replaces the content with markup. Callers sanitize before writing.
func (e *Element) SetHTML(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = markup
	e.markup = true
	e.written = true
}

// Written reports whether any content has been set
func (e *Element) Written() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.written
}

// HTML returns the content as markup; plain text is escaped
func (e *Element) HTML() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.markup {
		return e.content
	}
	return html.EscapeString(e.content)
}

// Text returns the content with any markup removed
func (e *Element) Text() string {
	e.mu.RLock()
	content, markup := e.content, e.markup
	e.mu.RUnlock()

	if !markup {
		return content
	}
	return textContent(content)
}

// Show makes the element visible
func (e *Element) Show() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = false
}

// Hide makes the element invisible
func (e *Element) Hide() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = true
}

// Visible reports whether the element is shown
func (e *Element) Visible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.hidden
}

// Mount attaches a new chart instance. Earlier instances are left untouched.
func (e *Element) Mount(inst *chart.Instance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.charts = append(e.charts, inst)
}

// Charts returns every instance mounted so far, oldest first
func (e *Element) Charts() []*chart.Instance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*chart.Instance, len(e.charts))
	copy(out, e.charts)
	return out
}

// Latest returns the most recently mounted instance, or nil
func (e *Element) Latest() *chart.Instance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.charts) == 0 {
		return nil
	}
	return e.charts[len(e.charts)-1]
}

func textContent(markup string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the text so far is the result
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
