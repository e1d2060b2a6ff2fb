package sync

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSyncErrorMessageIncludesContext(t *testing.T) {
	err := NewFatalError("sync CLI failed", errors.New("exit status 2")).
		WithOrderbook("alpha").WithStep("sync").WithExitCode(2)

	msg := err.Error()
	for _, fragment := range []string{"[fatal]", "orderbook=alpha", "step=sync", "exit status 2"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("Expected %q in message %q", fragment, msg)
		}
	}
	if err.ExitCode != 2 {
		t.Errorf("Expected exit code 2, got %d", err.ExitCode)
	}
}

func TestSyncErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewFatalError("wrapper", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the underlying cause")
	}
}

func TestSyncErrorIsMatchesByClass(t *testing.T) {
	fatal := NewFatalError("a", nil)
	other := NewFatalError("b", nil)
	quality := NewDataQualityError("c", nil)

	if !errors.Is(fatal, other) {
		t.Error("Expected two fatal errors to match")
	}
	if errors.Is(fatal, quality) {
		t.Error("Expected different classes not to match")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		class       ErrorClass
		fatal       bool
		dataQuality bool
	}{
		{
			name:  "fatal error",
			err:   NewFatalError("boom", nil),
			class: ErrorClassFatal,
			fatal: true,
		},
		{
			name:        "data quality error",
			err:         NewDataQualityError("bad entry", nil),
			class:       ErrorClassDataQuality,
			dataQuality: true,
		},
		{
			name:  "wrapped fatal error",
			err:   fmt.Errorf("outer: %w", NewFatalError("inner", nil)),
			class: ErrorClassFatal,
			fatal: true,
		},
		{
			name:  "plain error defaults to fatal",
			err:   errors.New("unknown"),
			class: ErrorClassFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.class {
				t.Errorf("Classify() = %v, want %v", got, tt.class)
			}
			if got := IsFatal(tt.err); got != tt.fatal {
				t.Errorf("IsFatal() = %v, want %v", got, tt.fatal)
			}
			if got := IsDataQuality(tt.err); got != tt.dataQuality {
				t.Errorf("IsDataQuality() = %v, want %v", got, tt.dataQuality)
			}
		})
	}
}
