// Package errors defines the error taxonomy of the addon platform and its
// mapping onto HTTP responses. Handlers and the application service return
// *Error values; the echo middleware in this package renders them as JSON.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType buckets an error for status mapping and the per-type metric.
type ErrorType string

const (
	// TypeValidation: a request payload the schema or a parser rejected (HTTP 400).
	TypeValidation ErrorType = "validation"
	// TypeNotFound: an addon key, overlay ID, or install that does not resolve (HTTP 404).
	TypeNotFound ErrorType = "not_found"
	// TypeConflict: a duplicate install of the same addon (HTTP 409).
	TypeConflict ErrorType = "conflict"
	// TypeInternal: database or other server-side failure (HTTP 500).
	TypeInternal ErrorType = "internal"
	// TypeExternal: Twitch returned an error during the OAuth exchange (HTTP 502).
	TypeExternal ErrorType = "external"
)

// Error carries the type bucket, a client-safe message, the wrapped cause,
// and optional diagnostic fields that end up in both the log line and the
// JSON body.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type to its response status code.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError rejects bad input, e.g. a config payload that fails the
// addon's schema.
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// NotFoundError reports a record that does not resolve: an unknown addon
// key, overlay ID, or an install the user does not have.
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// ConflictError reports a state collision, e.g. installing an addon twice.
func ConflictError(message string) *Error {
	return &Error{Type: TypeConflict, Message: message}
}

// InternalError wraps a server-side failure the client can do nothing about.
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// ExternalError wraps a failure of an upstream collaborator, in practice the
// Twitch OAuth exchange.
func ExternalError(message string, cause error) *Error {
	return &Error{Type: TypeExternal, Message: message, Cause: cause}
}

// WithField attaches a diagnostic field (chainable). The map is allocated on
// first use so the common no-field path stays allocation-free.
func (e *Error) WithField(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// ErrorResponse is the JSON body clients receive for any failed request.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Type   ErrorType      `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ToResponse shapes the error for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Type:   e.Type,
		Fields: e.Fields,
	}
}

// AsStructuredError returns err as an *Error, wrapping anything else as an
// internal error so untyped failures never leak their message to clients.
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
