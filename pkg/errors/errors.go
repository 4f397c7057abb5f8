// Package errors provides structured error types for Solace.
//
// Domain code never fails; these errors are raised at the edges (catalog
// loading, storage, messaging, secrets, HTTP decoding) so the functions can
// log, retry and map them to status codes consistently.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Common error codes used throughout Solace.
const (
	// Catalog errors
	CodeExerciseNotFound ErrorCode = "EXERCISE_NOT_FOUND"
	CodeCatalogInvalid   ErrorCode = "CATALOG_INVALID"

	// Coach errors
	CodeCoachFailed      ErrorCode = "COACH_FAILED"
	CodeCoachUnavailable ErrorCode = "COACH_UNAVAILABLE"

	// Export errors
	CodeExportFailed ErrorCode = "EXPORT_FAILED"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"
	CodeSecretError  ErrorCode = "SECRET_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeTimeoutError    ErrorCode = "TIMEOUT_ERROR"
)

// SolaceError is the base error type for all Solace errors.
// It carries an error code, retry semantics, and contextual metadata.
type SolaceError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *SolaceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SolaceError) Unwrap() error {
	return e.Cause
}

// Is matches on error code so wrapped sentinels compare equal.
func (e *SolaceError) Is(target error) bool {
	t, ok := target.(*SolaceError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *SolaceError) WithCause(cause error) *SolaceError {
	return &SolaceError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMessage adds a custom message.
func (e *SolaceError) WithMessage(msg string) *SolaceError {
	return &SolaceError{
		Code:      e.Code,
		Message:   msg,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *SolaceError) WithMetadata(key, value string) *SolaceError {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &SolaceError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	ErrExerciseNotFound = &SolaceError{Code: CodeExerciseNotFound, Message: "exercise not found", Retryable: false}
	ErrCatalogInvalid   = &SolaceError{Code: CodeCatalogInvalid, Message: "invalid exercise catalog", Retryable: false}

	ErrCoachFailed      = &SolaceError{Code: CodeCoachFailed, Message: "coach response failed", Retryable: true}
	ErrCoachUnavailable = &SolaceError{Code: CodeCoachUnavailable, Message: "coach not configured", Retryable: false}

	ErrExportFailed = &SolaceError{Code: CodeExportFailed, Message: "session export failed", Retryable: false}

	ErrStorageError = &SolaceError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSubError  = &SolaceError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}
	ErrSecretError  = &SolaceError{Code: CodeSecretError, Message: "secret access error", Retryable: true}

	ErrValidation = &SolaceError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &SolaceError{Code: CodeInternalError, Message: "internal error", Retryable: false}
	ErrTimeout    = &SolaceError{Code: CodeTimeoutError, Message: "timeout", Retryable: true}
)

// New creates a new SolaceError with the given code and message.
func New(code ErrorCode, message string) *SolaceError {
	return &SolaceError{
		Code:    code,
		Message: message,
	}
}

// NewRetryable creates a new retryable SolaceError.
func NewRetryable(code ErrorCode, message string) *SolaceError {
	return &SolaceError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// Wrap wraps an error with a SolaceError.
func Wrap(cause error, code ErrorCode, message string) *SolaceError {
	return &SolaceError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapRetryable wraps an error with a retryable SolaceError.
func WrapRetryable(cause error, code ErrorCode, message string) *SolaceError {
	return &SolaceError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var sErr *SolaceError
	if errors.As(err, &sErr) {
		return sErr.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var sErr *SolaceError
	if errors.As(err, &sErr) {
		return sErr.Code
	}
	return CodeInternalError
}

// HTTPStatus maps an error code to the status returned by the HTTP functions.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case "":
		return http.StatusOK
	case CodeExerciseNotFound:
		return http.StatusNotFound
	case CodeValidationError:
		return http.StatusBadRequest
	case CodeTimeoutError:
		return http.StatusGatewayTimeout
	case CodeCoachUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
