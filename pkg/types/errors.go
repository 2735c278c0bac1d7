package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrorCode classifies a normalized adapter failure. The registry core uses
// the constants below; individual adapters may extend the space with their
// own codes through their declared message→code maps.
type ErrorCode string

const (
	ErrCodeMissingAdapter         ErrorCode = "MISSING_ADAPTER"
	ErrCodeEnvironmentMismatch    ErrorCode = "ENVIRONMENT_MISMATCH"
	ErrCodeMissingRequirement     ErrorCode = "MISSING_REQUIREMENT"
	ErrCodeInvalidRequirementType ErrorCode = "INVALID_REQUIREMENT_TYPE"
	ErrCodeIncompatibleAdapter    ErrorCode = "INCOMPATIBLE_ADAPTER"
	ErrCodeMethodNotSupported     ErrorCode = "METHOD_NOT_SUPPORTED"
	ErrCodeAdapterInternal        ErrorCode = "ADAPTER_INTERNAL"
	ErrCodeRegistryMisconfigured  ErrorCode = "REGISTRY_MISCONFIGURED"
)

// AdapterError is the single error shape produced at the adapter boundary.
// Every failure crossing a factory or a wrapped adapter call is expressed as
// one of these; adapter-internal exception types never leak to callers.
type AdapterError struct {
	// ID uniquely identifies this failure instance for log correlation.
	ID string

	// Code classifies the failure.
	Code ErrorCode

	// Message is the human-readable description.
	Message string

	// Adapter names the adapter involved, when known.
	Adapter string

	// Method names the originating method for interception-layer failures.
	Method string

	// Details carries best-effort structured diagnostics extracted from the
	// original failure (revert payloads, rpc bodies, transaction echoes).
	Details map[string]any

	cause error
}

// NewAdapterError builds a normalized error with a fresh instance ID.
func NewAdapterError(code ErrorCode, message string) *AdapterError {
	return &AdapterError{
		ID:      uuid.NewString(),
		Code:    code,
		Message: message,
	}
}

// Errorf is NewAdapterError with fmt-style message construction.
func Errorf(code ErrorCode, format string, args ...any) *AdapterError {
	return NewAdapterError(code, fmt.Sprintf(format, args...))
}

// WithAdapter attaches the adapter name and returns the receiver.
func (e *AdapterError) WithAdapter(name string) *AdapterError {
	e.Adapter = name
	return e
}

// WithMethod attaches the originating method name and returns the receiver.
func (e *AdapterError) WithMethod(method string) *AdapterError {
	e.Method = method
	return e
}

// WithCause wraps the original error and returns the receiver.
func (e *AdapterError) WithCause(cause error) *AdapterError {
	e.cause = cause
	return e
}

// WithDetail records one structured diagnostic and returns the receiver.
func (e *AdapterError) WithDetail(key string, value any) *AdapterError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges a diagnostic bag and returns the receiver.
func (e *AdapterError) WithDetails(details map[string]any) *AdapterError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

func (e *AdapterError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if e.Adapter != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Adapter)
		if e.Method != "" {
			sb.WriteString(".")
			sb.WriteString(e.Method)
		}
		sb.WriteString("]")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// Unwrap exposes the original cause to errors.Is/errors.As.
func (e *AdapterError) Unwrap() error {
	return e.cause
}

// AsAdapterError extracts an *AdapterError from anywhere in err's chain.
func AsAdapterError(err error) (*AdapterError, bool) {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsCode reports whether err carries the given normalized error code.
func IsCode(err error, code ErrorCode) bool {
	ae, ok := AsAdapterError(err)
	return ok && ae.Code == code
}
