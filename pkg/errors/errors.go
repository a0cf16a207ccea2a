package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Configuration errors (fatal at startup, never at dispatch time)

var (
	// ErrStrategyUnavailable indicates the strategy profile could not be loaded
	ErrStrategyUnavailable = errors.New("strategy profile unavailable")

	// ErrUnresolvedBinding indicates a subscription binding references an unknown handler
	ErrUnresolvedBinding = errors.New("unresolved subscription binding")
)

// Research pipeline errors

var (
	// ErrPoorAlignment indicates a request failed the strategic alignment gate
	ErrPoorAlignment = errors.New("poor strategic alignment")

	// ErrCapability indicates an external capability (signal source, language model) failed
	ErrCapability = errors.New("capability failure")

	// ErrNoThemes indicates no themes survived gating or ranking
	ErrNoThemes = errors.New("no viable themes")

	// ErrRateLimitExceeded indicates a capability rate limit was exhausted
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Event log errors

var (
	// ErrOffsetRegression indicates an attempt to move an offset backwards
	ErrOffsetRegression = errors.New("consumer offset would regress")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
