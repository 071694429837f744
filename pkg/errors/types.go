// Package errors provides typed errors for the skinscout project.
//
// This package defines domain-specific error types that provide structured
// error information for the subsystems that can fail visibly (config, the
// aggregation API, durable storage).
// All error types implement the standard error interface and support
// errors.Is() and errors.As() from the standard library and cockroachdb/errors.
package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// APIError represents a failed call to the aggregation API.
// Message is the human-readable text shown to the user as-is.
type APIError struct {
	Operation  string // e.g., "Cheapest", "Market", "Health"
	Market     string // set for per-market calls
	StatusCode int    // HTTP status code if a response arrived
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new APIError without a response.
func NewAPIError(operation, message string) *APIError {
	return &APIError{Operation: operation, Message: message}
}

// NewAPIErrorWithStatus creates a new APIError for a non-success HTTP response.
// serverMessage is the body's error field; when empty the message falls back
// to "API Error: <code> <reason>".
func NewAPIErrorWithStatus(operation string, statusCode int, serverMessage string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("API Error: %d %s", statusCode, http.StatusText(statusCode))
	}
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    msg,
		Retryable:  isRetryableHTTPStatus(statusCode),
	}
}

// NewAPIErrorWithCause creates a new APIError for a transport failure.
func NewAPIErrorWithCause(operation, message string, cause error) *APIError {
	return &APIError{
		Operation: operation,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// WithMarket records which marketplace the failed call targeted.
func (e *APIError) WithMarket(market string) *APIError {
	e.Market = market
	return e
}

// StoreError represents a failure of a durable storage backend.
type StoreError struct {
	Backend   string // e.g., "file", "sqlite", "redis"
	Operation string // e.g., "Open", "Get", "Set"
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s failed: %s", e.Backend, e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation, message string) *StoreError {
	return &StoreError{Backend: backend, Operation: operation, Message: message}
}

// NewStoreErrorWithCause creates a new StoreError with an underlying cause.
func NewStoreErrorWithCause(backend, operation, message string, cause error) *StoreError {
	return &StoreError{Backend: backend, Operation: operation, Message: message, Cause: cause}
}

// IsRetryable checks if an error or any error in its chain is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Retryable
	}

	return false
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsAPIError checks if an error or any error in its chain is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsStoreError checks if an error or any error in its chain is a StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// isRetryableHTTPStatus returns true for HTTP status codes that are typically retryable.
func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use skerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As
)
