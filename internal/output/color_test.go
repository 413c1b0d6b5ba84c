package output

import (
	"bytes"
	"testing"
)

func TestNewColorSchemeDisabled(t *testing.T) {
	// A bytes.Buffer is not a TTY, so colors are disabled regardless
	var buf bytes.Buffer

	cs := NewColorScheme(&buf, false)
	if !cs.Disabled {
		t.Error("colors should be disabled for non-TTY writers")
	}

	// No-op color functions must pass text through unchanged
	if got := cs.Success("ok"); got != "ok" {
		t.Errorf("expected plain text, got %q", got)
	}
}

func TestNewColorSchemeNoColorFlag(t *testing.T) {
	var buf bytes.Buffer

	cs := NewColorScheme(&buf, true)
	if !cs.Disabled {
		t.Error("colors should be disabled with noColor true")
	}
}

func TestStatusColor(t *testing.T) {
	var buf bytes.Buffer
	cs := NewColorScheme(&buf, true)

	if cs.StatusColor(false)("pass") != "pass" {
		t.Error("success status should pass through when disabled")
	}
	if cs.StatusColor(true)("fail") != "fail" {
		t.Error("failure status should pass through when disabled")
	}
}
