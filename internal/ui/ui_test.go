package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := Out
	Out = &buf
	t.Cleanup(func() { Out = orig })
	return &buf
}

func TestInfo_TimestampedAndTagged(t *testing.T) {
	buf := capture(t)
	Info("starting %s", "brain")

	got := buf.String()
	if !strings.Contains(got, "[INFO]") {
		t.Errorf("missing level tag: %q", got)
	}
	if !strings.Contains(got, "starting brain") {
		t.Errorf("missing message: %q", got)
	}
	// Leading [HH:MM:SS] timestamp
	if len(got) < 10 || got[0] != '[' || got[9] != ']' {
		t.Errorf("missing timestamp prefix: %q", got)
	}
}

func TestStep_IndentedArrow(t *testing.T) {
	buf := capture(t)
	Step("raven-brain.service")

	if got := buf.String(); got != "  -> raven-brain.service\n" {
		t.Errorf("unexpected step line: %q", got)
	}
}
