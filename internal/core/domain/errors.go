// Package domain defines the core domain models for the exporter.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes follow the format ETP-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "ETP-TASK-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrConfigInvalid indicates the configuration failed validation.
	ErrConfigInvalid = NewDomainError("ETP-CONF-4000", "invalid configuration")

	// ErrConfigMissing indicates a required configuration value is absent.
	ErrConfigMissing = NewDomainError("ETP-CONF-4001", "missing required configuration")
)

// ============================================================================
// Task Errors (TASK)
// ============================================================================

var (
	// ErrInvalidTask indicates a task definition failed validation.
	ErrInvalidTask = NewDomainError("ETP-TASK-4001", "invalid task definition")

	// ErrInvalidPeriod indicates a task period outside 1..MaxPeriod minutes.
	ErrInvalidPeriod = NewDomainError("ETP-TASK-4002", "period out of range")

	// ErrDuplicateMetric indicates two tasks share the same metric name.
	ErrDuplicateMetric = NewDomainError("ETP-TASK-4090", "duplicate metric name")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrRegistrySealed indicates a counter registration after polling started.
	ErrRegistrySealed = NewDomainError("ETP-SYS-5001", "metrics registry is sealed")

	// ErrBindFailed indicates the exposition endpoint could not bind its address.
	ErrBindFailed = NewDomainError("ETP-SYS-5002", "cannot bind server address")
)
