package errors

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for callers that branch on failure class
// rather than on message text.
type Kind string

const (
	Invalid  Kind = "invalid"
	NotFound Kind = "not_found"
	Internal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// E wraps err with a kind and a message. A nil err is allowed when the
// message alone describes the failure.
func E(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

type fieldError struct {
	field  string
	reason string
}

// ValidationErrors accumulates per-field validation failures so that a
// single pass can report all of them at once.
type ValidationErrors struct {
	fields []fieldError
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{}
}

func (v *ValidationErrors) Add(field, reason string) {
	v.fields = append(v.fields, fieldError{field: field, reason: reason})
}

// Err returns nil when no failures were added, otherwise a single error
// listing every offending field.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	parts := make([]string, len(v.fields))
	for i, fe := range v.fields {
		parts[i] = fmt.Sprintf("%s: %s", fe.field, fe.reason)
	}
	return errors.New(strings.Join(parts, "; "))
}
