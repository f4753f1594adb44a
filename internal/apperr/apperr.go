// Package apperr defines the closed set of error kinds that services and
// validators return and that the HTTP layer translates into status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected collaborator failure. It is the zero value
	// so that unclassified errors are never reported as client mistakes.
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindDuplicateEmail
	KindEmailTaken
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindValidation:         "validation_failed",
	KindUnauthorized:       "unauthorized",
	KindInvalidCredentials: "invalid_credentials",
	KindForbidden:          "forbidden",
	KindNotFound:           "not_found",
	KindDuplicateEmail:     "duplicate_email",
	KindEmailTaken:         "email_taken",
	KindRateLimited:        "rate_limit_exceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// HTTPStatus returns the wire status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindDuplicateEmail, KindEmailTaken:
		return http.StatusBadRequest
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error carrying its kind alongside a client-safe
// message. Field is set for validation failures.
type Error struct {
	Err     error
	Message string
	Field   string
	Kind    Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid creates a validation error naming the offending field.
func Invalid(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
