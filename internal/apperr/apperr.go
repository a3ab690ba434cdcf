// Package apperr defines the error taxonomy shared by repositories and
// HTTP controllers.
//
// Repositories return *Error values; controllers translate the Kind into an
// HTTP status without inspecting driver-specific errors.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindStorage
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Error carries a short client-facing code ("Word not found") and a longer
// message. Err holds the underlying cause for storage errors and is never
// exposed to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool {
	return e != nil && e.Kind == KindBusy
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Storage(err error) *Error {
	return &Error{
		Kind:    KindStorage,
		Code:    "Database error",
		Message: "An internal error occurred",
		Err:     err,
	}
}

func Busy(err error) *Error {
	return &Error{
		Kind:    KindBusy,
		Code:    "Database busy",
		Message: "The database is busy, please retry the request",
		Err:     err,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindStorage for errors outside the taxonomy.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindStorage
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
