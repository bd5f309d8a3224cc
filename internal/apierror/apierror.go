// Package apierror defines the error kinds surfaced to API callers.
package apierror

import "net/http"

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is a caller-safe error. Message is always suitable for the response
// body; raw storage or upstream errors must be logged, not wrapped in here.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Code returns the machine-readable code included in error envelopes.
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindUnavailable:
		return "UNAVAILABLE"
	}
	return "ERROR"
}

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Message: msg} }
