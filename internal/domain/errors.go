package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match on these with errors.Is; the structured *Error below
// unwraps to one of them.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("duplicate resource")
	ErrResourceInUse = errors.New("resource in use")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Error carries the kind of failure plus enough detail (resource type, identifier,
// blocking count) for a caller to render a precise response.
type Error struct {
	Kind       error
	Resource   string
	Identifier string
	Count      int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("the %s with identifier %s was not found", e.Resource, e.Identifier)
	case ErrConflict:
		return fmt.Sprintf("the %s with identifier %s already exists", e.Resource, e.Identifier)
	case ErrResourceInUse:
		return fmt.Sprintf("the %s %s is in use by %d note(s)", e.Resource, e.Identifier, e.Count)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports a missing resource, e.g. NotFound("Note", id) or NotFound("Image", fileName).
func NotFound(resource, identifier string) error {
	return &Error{Kind: ErrNotFound, Resource: resource, Identifier: identifier}
}

// Duplicate reports a uniqueness collision on create or rename.
func Duplicate(resource, identifier string) error {
	return &Error{Kind: ErrConflict, Resource: resource, Identifier: identifier}
}

// InUse reports a delete refused because count other records still reference the resource.
func InUse(resource, identifier string, count int) error {
	return &Error{Kind: ErrResourceInUse, Resource: resource, Identifier: identifier, Count: count}
}

// InvalidInput reports a command that violates an entity invariant.
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports failed credentials or an invalid refresh token.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// AsError returns the structured error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
