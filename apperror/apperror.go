// Package apperror defines the error taxonomy shared by the store, the
// middleware and the HTTP handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how it should be reported to the caller.
type Kind int

const (
	Internal Kind = iota
	BadRequest
	Unauthenticated
	Forbidden
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a response carrying this kind uses.
func (k Kind) HTTPStatus() int {
	switch k {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a Kind and a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err. Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err belongs to the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
