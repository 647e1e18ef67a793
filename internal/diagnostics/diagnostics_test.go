package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rewired-gh/fraudscope/internal/logger"
)

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	var calls int
	m := Multi{&a, nil, &b, Func(func(string, error) { calls++ })}

	m.Report("dashboard", errors.New("boom"))

	if len(a.Entries()) != 1 || len(b.Entries()) != 1 || calls != 1 {
		t.Fatalf("Expected every channel to receive the report")
	}
	if got := a.Entries()[0]; got.Source != "dashboard" || got.Err.Error() != "boom" {
		t.Errorf("Unexpected entry %+v", got)
	}
}

func TestLogChannel(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "error", "json")

	LogChannel{}.Report("dashboard", errors.New("failed to load dashboard data"))

	if !strings.Contains(buf.String(), "[ERROR] dashboard: failed to load dashboard data") {
		t.Errorf("Unexpected log output %q", buf.String())
	}
}
