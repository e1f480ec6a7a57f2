package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidationFailed signals a malformed or out-of-enum filter payload.
	ErrValidationFailed = errors.New("validation failed")
	// ErrUpstreamFailed signals a failure of the external product index.
	ErrUpstreamFailed = errors.New("upstream index failed")
)

// ValidationError wraps ErrValidationFailed with every violation found in the payload.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrValidationFailed.Error()
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// NewValidationError creates a validation error from one or more violations.
func NewValidationError(details ...string) error {
	return &ValidationError{Details: details}
}

// UpstreamError wraps ErrUpstreamFailed with the backend that failed and the cause.
// The cause is for operators only and never reaches API clients.
type UpstreamError struct {
	Backend string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrUpstreamFailed.Error(), e.Backend, e.Cause)
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstreamFailed, e.Cause} }

// NewUpstreamError creates an upstream error for the given backend.
func NewUpstreamError(backend string, cause error) error {
	return &UpstreamError{Backend: backend, Cause: cause}
}
