package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the API's failure categories. Every
// operation converts its own failures into one of these before returning.
type Kind int

const (
	// Validation covers missing or malformed required fields.
	Validation Kind = iota + 1
	// Authorization covers role-not-permitted and not-resource-owner failures.
	Authorization
	// NotFound covers missing referenced entities.
	NotFound
	// Conflict covers duplicate unique fields and scheduling conflicts.
	Conflict
	// Store covers underlying data-access failures. The cause is logged for
	// operators; callers only ever see a generic message.
	Store
)

// Error is the error type returned by services and repositories.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Authorization, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// Storef wraps a data-access failure. The wrapped cause is never rendered to
// API clients.
func Storef(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: Store, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// HTTPStatus maps an error to the HTTP status code the API contract assigns
// to its kind. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
