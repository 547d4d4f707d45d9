// Package errors provides structured errors that carry a category, a client-facing
// message and log context, and map to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates resource conflict (HTTP 409)
	TypeConflict ErrorType = "conflict"
	// TypeRateLimited indicates the client sent too many requests (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeUnavailable indicates a dependency is temporarily unavailable (HTTP 503)
	TypeUnavailable ErrorType = "unavailable"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates external service error (HTTP 502)
	TypeExternal ErrorType = "external"
)

type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

func ConflictError(message string) *Error {
	return newError(TypeConflict, message, nil)
}

// RateLimitedError tells the client to come back after retryAfterSeconds.
func RateLimitedError(retryAfterSeconds int) *Error {
	return newError(TypeRateLimited, "rate limit exceeded", nil).WithField("retry_after", retryAfterSeconds)
}

func UnavailableError(message string, cause error) *Error {
	return newError(TypeUnavailable, message, cause)
}

func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

func ExternalError(message string, cause error) *Error {
	return newError(TypeExternal, message, cause)
}

// WithField adds a log context field (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON body sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse exposes context fields for client errors only. Internal and
// external failures may carry query details that stay in the logs.
func (e *Error) ToResponse() ErrorResponse {
	resp := ErrorResponse{
		Error: e.Message,
		Type:  e.Type,
	}
	switch e.Type {
	case TypeValidation, TypeNotFound, TypeConflict, TypeRateLimited:
		if len(e.Context) > 0 {
			resp.Context = e.Context
		}
	}
	return resp
}

// AsStructuredError returns err unchanged when it already is (or wraps) an
// *Error and wraps anything else as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
