// Package apperror carries a structured failure kind from the repositories up to the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure independently of its message text
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Entity narrows a Kind: which record was missing, or which rule conflicted
type Entity string

const (
	EntityNone          Entity = ""
	EntityProduct       Entity = "product"
	EntityCategory      Entity = "category"
	EntityUser          Entity = "user"
	EntityDuplicateName Entity = "duplicate_name"
)

// Error is the typed failure returned by services
type Error struct {
	Kind    Kind
	Entity  Entity
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind and Entity so callers can compare against a template
// such as &Error{Kind: KindNotFound, Entity: EntityCategory}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Entity == EntityNone || e.Entity == t.Entity)
}

// InvalidArgument reports a missing or malformed input
func InvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// NotFound reports that a record of the given entity does not exist
func NotFound(entity Entity, message string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: message}
}

// Conflict reports a violated uniqueness rule
func Conflict(entity Entity, message string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: message}
}

// Unauthorized reports a rejected credential check
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an unexpected collaborator failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal for untyped errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// EntityOf returns the Entity carried by err
func EntityOf(err error) Entity {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Entity
	}
	return EntityNone
}

// HTTPStatus maps a Kind to the status code the boundary responds with.
// NotFound sub-kinds all collapse to 404.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// PublicMessage is the text safe to return to a client. Internal errors never
// expose their wrapped cause.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}
