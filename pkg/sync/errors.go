package sync

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a sync failure for reporting and policy
// decisions.
type ErrorClass string

const (
	// ErrorClassSoft marks expected conditions resolved to a safe
	// default: no archive yet, no checkpoint table, inspector
	// unavailable. Soft conditions are logged, never surfaced as
	// errors; the class exists for metrics.
	ErrorClassSoft ErrorClass = "soft"

	// ErrorClassDataQuality marks a deterministic per-orderbook data
	// problem: a malformed settings entry or a missing required field.
	// The orderbook is skipped; siblings are unaffected.
	ErrorClassDataQuality ErrorClass = "data_quality"

	// ErrorClassFatal marks an operational failure that aborts
	// processing for the orderbook: extraction or compression failure,
	// a non-zero CLI exit, a missing credential.
	ErrorClassFatal ErrorClass = "fatal"
)

// SyncError is a classified error with orderbook and step context.
// nolint:revive // SyncError is intentionally named to distinguish from standard errors
type SyncError struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// Orderbook is the orderbook being processed, if applicable.
	Orderbook string

	// Step is the lifecycle step that failed (prepare, sync,
	// finalize, manifest).
	Step string

	// ExitCode is the external CLI's exit code; -1 when unknown or
	// not applicable.
	ExitCode int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	switch {
	case e.Orderbook != "" && e.Step != "":
		return fmt.Sprintf("[%s] %s (orderbook=%s, step=%s): %s",
			e.Class, e.Message, e.Orderbook, e.Step, e.unwrapMessage())
	case e.Orderbook != "":
		return fmt.Sprintf("[%s] %s (orderbook=%s): %s",
			e.Class, e.Message, e.Orderbook, e.unwrapMessage())
	default:
		return fmt.Sprintf("[%s] %s: %s", e.Class, e.Message, e.unwrapMessage())
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is implements error equality for errors.Is.
func (e *SyncError) Is(target error) bool {
	t, ok := target.(*SyncError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// NewFatalError creates a new fatal error.
func NewFatalError(message string, err error) *SyncError {
	return &SyncError{Class: ErrorClassFatal, Message: message, ExitCode: -1, Err: err}
}

// NewDataQualityError creates a new data-quality error.
func NewDataQualityError(message string, err error) *SyncError {
	return &SyncError{Class: ErrorClassDataQuality, Message: message, ExitCode: -1, Err: err}
}

// WithOrderbook adds orderbook context to an error.
func (e *SyncError) WithOrderbook(name string) *SyncError {
	e.Orderbook = name
	return e
}

// WithStep adds step context to an error.
func (e *SyncError) WithStep(step string) *SyncError {
	e.Step = step
	return e
}

// WithExitCode records the external CLI's exit code.
func (e *SyncError) WithExitCode(code int) *SyncError {
	e.ExitCode = code
	return e
}

// IsFatal returns true if the error is classified as fatal.
func IsFatal(err error) bool {
	var e *SyncError
	if errors.As(err, &e) {
		return e.Class == ErrorClassFatal
	}
	return false
}

// IsDataQuality returns true if the error is classified as a
// data-quality failure.
func IsDataQuality(err error) bool {
	var e *SyncError
	if errors.As(err, &e) {
		return e.Class == ErrorClassDataQuality
	}
	return false
}

// Classify returns the error's class, defaulting to fatal for
// unclassified errors.
func Classify(err error) ErrorClass {
	var e *SyncError
	if errors.As(err, &e) {
		return e.Class
	}
	return ErrorClassFatal
}
