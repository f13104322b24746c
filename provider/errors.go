package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnavailable indicates the LLM service is unavailable.
	ErrUnavailable = errors.New("LLM service unavailable")

	// ErrContextTooLong indicates the prompt exceeds the context window.
	ErrContextTooLong = errors.New("context exceeds maximum length")

	// ErrRateLimited indicates the request was rate limited or over quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrCredentialsNotFound indicates the API key is missing.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyResponse indicates the provider answered without any completion.
	ErrEmptyResponse = errors.New("empty response")
)

// Error wraps provider errors with context.
type Error struct {
	Provider   string // Provider name ("openai", "mock")
	Op         string // Operation that failed ("complete", "chat")
	StatusCode int    // HTTP status of a failed API call, 0 when none was received
	Err        error  // Underlying error
	Retryable  bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Provider != "" {
		msg = e.Provider + " " + e.Op
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// WithStatus records the HTTP status the failure came with.
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}

// StatusCode returns the HTTP status recorded anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}

// IsRetryable reports whether an error is likely transient.
// Nothing in statefold retries; this only classifies failures for reporting.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrCredentialsNotFound) ||
		errors.Is(err, ErrUnauthorized)
}
