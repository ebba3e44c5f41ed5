package model

import (
	"errors"
	"fmt"
)

// EnhanceError is a classified failure from the credential store or the
// enhancement client. Status is the HTTP status when one was received.
type EnhanceError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *EnhanceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EnhanceError) Unwrap() error { return e.Err }

// NewEnhanceError creates an EnhanceError wrapping err.
func NewEnhanceError(kind ErrorKind, message string, err error) *EnhanceError {
	return &EnhanceError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the ErrorKind carried by err, or ErrorUnknown when err is
// not (and does not wrap) an *EnhanceError.
func KindOf(err error) ErrorKind {
	var ee *EnhanceError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ErrorUnknown
}
