package screen

import (
	"fmt"
)

// Error types for screen transitions
var (
	ErrInvalidTransition = &ScreenError{Code: "INVALID_TRANSITION", Message: "action not available in the current state"}
	ErrInvalidFile       = &ScreenError{Code: "INVALID_FILE", Message: "invalid file selection"}
	ErrScanInProgress    = &ScreenError{Code: "SCAN_IN_PROGRESS", Message: "a scan is already running"}
)

// ScreenError represents a rejected screen action. State is left unchanged.
type ScreenError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable message
	Phase   Phase  // Phase the screen was in
	Cause   error
}

func (e *ScreenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ScreenError) Unwrap() error {
	return e.Cause
}

// Is matches on error code so wrapped copies compare equal to the sentinels
func (e *ScreenError) Is(target error) bool {
	t, ok := target.(*ScreenError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// in returns a copy annotated with the phase the action was attempted in
func (e *ScreenError) in(p Phase) *ScreenError {
	return &ScreenError{Code: e.Code, Message: fmt.Sprintf("%s (%s)", e.Message, p), Phase: p}
}

// WithCause adds the underlying cause to the error
func (e *ScreenError) WithCause(cause error) *ScreenError {
	return &ScreenError{Code: e.Code, Message: e.Message, Phase: e.Phase, Cause: cause}
}
