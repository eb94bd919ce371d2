// Package apperr defines the error kinds returned by handlers and how they map to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindPersistence
)

// Error carries a caller-facing message and, for persistence failures, the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Authentication is used for bad credentials. The message never tells unknown user from wrong password.
func Authentication() *Error {
	return &Error{Kind: KindAuthentication, Message: "Invalid credentials"}
}

func Unauthenticated() *Error { return &Error{Kind: KindUnauthenticated, Message: "Unauthenticated"} }

func Forbidden() *Error { return &Error{Kind: KindForbidden, Message: "Forbidden"} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Persistence wraps a datastore failure. Message holds the raw datastore text.
func Persistence(err error) *Error {
	msg := "persistence error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// Status maps an error to its HTTP status code; unknown errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict, KindAuthentication:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
