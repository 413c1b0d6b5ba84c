package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTargetError(t *testing.T) {
	base := errors.New("checksum mismatch")
	err := WrapTargetError("backup.7z", base)

	if !strings.Contains(err.Error(), "backup.7z") {
		t.Errorf("expected target in message, got %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should satisfy errors.Is")
	}

	var te *TargetError
	if !errors.As(err, &te) {
		t.Fatal("expected TargetError via errors.As")
	}
	if te.Target != "backup.7z" {
		t.Errorf("unexpected target %q", te.Target)
	}

	if WrapTargetError("x", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestMultiError(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		var m MultiError
		if m.ErrorOrNil() != nil {
			t.Error("empty MultiError should be nil")
		}
	})

	t.Run("single error message", func(t *testing.T) {
		m := NewMultiError([]error{errors.New("only one")})
		if m.Error() != "only one" {
			t.Errorf("unexpected message: %q", m.Error())
		}
	})

	t.Run("nil errors filtered", func(t *testing.T) {
		m := NewMultiError([]error{nil, errors.New("real"), nil})
		if len(m.Errors) != 1 {
			t.Errorf("expected 1 error, got %d", len(m.Errors))
		}
	})

	t.Run("message truncated past ten", func(t *testing.T) {
		var errs []error
		for i := 0; i < 15; i++ {
			errs = append(errs, fmt.Errorf("error %d", i))
		}
		msg := NewMultiError(errs).Error()
		if !strings.Contains(msg, "15 errors occurred") {
			t.Errorf("expected count in message, got %q", msg)
		}
		if !strings.Contains(msg, "and 5 more errors") {
			t.Errorf("expected truncation notice, got %q", msg)
		}
	})

	t.Run("errors.Is through multi", func(t *testing.T) {
		m := NewMultiError([]error{ErrTimeout, errors.New("other")})
		if !errors.Is(m, ErrTimeout) {
			t.Error("expected errors.Is to find the sentinel")
		}
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("parallel", 0, "must be at least 1")
	if !strings.Contains(err.Error(), "parallel") || !strings.Contains(err.Error(), "must be at least 1") {
		t.Errorf("unexpected message: %q", err.Error())
	}

	noValue := NewValidationError("dest", nil, "required")
	if strings.Contains(noValue.Error(), "value:") {
		t.Errorf("nil value should be omitted from message: %q", noValue.Error())
	}
}

func TestSentinelHelpers(t *testing.T) {
	if !IsTimeout(fmt.Errorf("wrapped: %w", ErrTimeout)) {
		t.Error("IsTimeout should see through wrapping")
	}
	if !IsCancelled(fmt.Errorf("wrapped: %w", ErrCancelled)) {
		t.Error("IsCancelled should see through wrapping")
	}
	if IsTimeout(errors.New("unrelated")) {
		t.Error("IsTimeout should reject unrelated errors")
	}
	if !IsTimeout(context.DeadlineExceeded) {
		t.Error("IsTimeout should accept context.DeadlineExceeded")
	}
	if !IsCancelled(context.Canceled) {
		t.Error("IsCancelled should accept context.Canceled")
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil", err: nil, contains: ""},
		{name: "timeout", err: ErrTimeout, contains: "timed out"},
		{name: "cancelled", err: ErrCancelled, contains: "cancelled"},
		{name: "not archive", err: ErrNotArchive, contains: "7z and zip"},
		{name: "no candidates", err: ErrNoCandidates, contains: "wordlist"},
		{name: "invalid config", err: ErrInvalidConfig, contains: "config file"},
		{name: "unknown passthrough", err: errors.New("mystery"), contains: "mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("expected empty string, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCombineErrors(t *testing.T) {
	if CombineErrors(nil, nil) != nil {
		t.Error("all-nil should combine to nil")
	}

	err := CombineErrors(errors.New("a"), nil, errors.New("b"))
	if err == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(err.Error(), "2 errors occurred") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestWrapErrorf(t *testing.T) {
	base := errors.New("root cause")
	err := WrapErrorf(base, "processing %s", "file.7z")
	if !errors.Is(err, base) {
		t.Error("wrapped error should satisfy errors.Is")
	}
	if !strings.Contains(err.Error(), "processing file.7z") {
		t.Errorf("unexpected message: %q", err.Error())
	}

	if WrapErrorf(nil, "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}
