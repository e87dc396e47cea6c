// Package apperr holds the error kinds shared by every module. Modules wrap
// them with context via fmt.Errorf("...: %w", ...) and the HTTP layer maps
// the kind to a status code with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// NotFound returns ErrNotFound annotated with the entity name and id.
func NotFound(entity, id string) error {
	return &notFoundError{entity: entity, id: id}
}

type notFoundError struct {
	entity string
	id     string
}

func (e *notFoundError) Error() string { return e.entity + " " + e.id + " not found" }

func (e *notFoundError) Unwrap() error { return ErrNotFound }

// InvalidState returns an error reading msg that matches ErrInvalidState.
func InvalidState(msg string) error { return &kindError{msg: msg, kind: ErrInvalidState} }

// Conflict returns an error reading msg that matches ErrConflict.
func Conflict(msg string) error { return &kindError{msg: msg, kind: ErrConflict} }

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
