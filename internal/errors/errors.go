package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError for HTTP mapping
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindPolicy       Kind = "policy_violation"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal_error"
)

// APIError is the error type services return to handlers. Handlers map it to an
// HTTP status via Status(); everything that is not an APIError is a 500.
type APIError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *APIError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind
func (e *APIError) Status() int {
	switch e.Kind {
	case KindValidation, KindPolicy:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a 400 validation error
func Validation(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404 error
func NotFound(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds a 403 error
func Forbidden(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a 409 error
func Conflict(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Policy builds a 400 policy-violation error
func Policy(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindPolicy, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a 401 error
func Unauthorized(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// RateLimited builds a 429 error
func RateLimited(format string, args ...interface{}) *APIError {
	return &APIError{Kind: KindRateLimited, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error as a 500
func Internal(message string, err error) *APIError {
	return &APIError{Kind: KindInternal, Message: message, Err: err}
}

// AsAPIError extracts an *APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind
func IsKind(err error, kind Kind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
