// Package diagnostics is the operator-facing failure channel. Controllers report
// failures here instead of showing them to the end user.
package diagnostics

import (
	"sync"

	"github.com/rewired-gh/fraudscope/internal/logger"
)

// Channel receives failure reports
type Channel interface {
	Report(source string, err error)
}

// Func adapts a function to a Channel
type Func func(source string, err error)

// Report calls f
func (f Func) Report(source string, err error) { f(source, err) }

// LogChannel writes reports to the error log
type LogChannel struct{}

// Report logs err at error level
func (LogChannel) Report(source string, err error) {
	logger.Error("%s: %v", source, err)
}

// Multi fans a report out to every channel
type Multi []Channel

// Report forwards to each channel in order
func (m Multi) Report(source string, err error) {
	for _, ch := range m {
		if ch != nil {
			ch.Report(source, err)
		}
	}
}

// Entry is one recorded report
type Entry struct {
	Source string
	Err    error
}

// Recorder keeps reports in memory
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Report appends an entry
func (r *Recorder) Report(source string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Source: source, Err: err})
}

// Entries returns a copy of everything recorded so far
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
