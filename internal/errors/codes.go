// Package errors defines the typed error codes and tagged results shared by
// the scheduling engine.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error type surfaced to callers.
type ErrorCode string

const (
	// ErrCodeOpenAICallFailed indicates the external time resolution call failed
	// at the transport or HTTP level.
	ErrCodeOpenAICallFailed ErrorCode = "OPENAI_CALL_FAILED"
	// ErrCodeOpenAIInvalidResponse indicates the external call returned a shape
	// that could not be trusted.
	ErrCodeOpenAIInvalidResponse ErrorCode = "OPENAI_INVALID_RESPONSE"
	// ErrCodeOpenAIRateLimited indicates the outbound call budget is exhausted.
	ErrCodeOpenAIRateLimited ErrorCode = "OPENAI_RATE_LIMITED"
	// ErrCodeOpenAINotConfigured indicates fallback is enabled but no resolver is wired.
	ErrCodeOpenAINotConfigured ErrorCode = "OPENAI_NOT_CONFIGURED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeConflict indicates an optimistic concurrency conflict.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeNotFound indicates the referenced entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// AIError represents a structured error for engine operations.
type AIError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AIError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AIError) WithContext(key string, value any) *AIError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *AIError) GetCode() ErrorCode {
	return e.Code
}

// OpenAICallFailed creates a transport failure error for the external resolver.
func OpenAICallFailed(msg string, cause error) *AIError {
	return &AIError{Code: ErrCodeOpenAICallFailed, Message: msg, Cause: cause}
}

// OpenAIInvalidResponse creates an invalid response error.
func OpenAIInvalidResponse(msg string) *AIError {
	return &AIError{Code: ErrCodeOpenAIInvalidResponse, Message: msg}
}

// OpenAIRateLimited creates a rate limited error.
func OpenAIRateLimited(msg string) *AIError {
	return &AIError{Code: ErrCodeOpenAIRateLimited, Message: msg}
}

// OpenAINotConfigured creates a not configured error.
func OpenAINotConfigured(msg string) *AIError {
	return &AIError{Code: ErrCodeOpenAINotConfigured, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AIError {
	return &AIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Conflict creates a concurrency conflict error.
func Conflict(msg string, cause error) *AIError {
	return &AIError{Code: ErrCodeConflict, Message: msg, Cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *AIError {
	return &AIError{Code: ErrCodeNotFound, Message: msg}
}

// Wrap wraps an existing error with a code.
func Wrap(cause error, code ErrorCode, msg string) *AIError {
	return &AIError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error chain carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AIError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr.Code
	}
	return defaultCode
}
