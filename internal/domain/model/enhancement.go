package model

import (
	"fmt"
	"strings"
)

// EnhancementRequest is built by the panel from the current selection and its
// controls. Style and Tone are only meaningful when Kind is EnhancementCustom.
type EnhancementRequest struct {
	Kind  EnhancementKind
	Text  string
	Style string
	Tone  string
}

// EnhancementResult is the outcome of one request. Exactly one of Text or
// ErrorKind is set.
type EnhancementResult struct {
	Text      string
	ErrorKind ErrorKind
	Message   string
}

// Failed reports whether the result carries an error.
func (r EnhancementResult) Failed() bool {
	return r.ErrorKind != ""
}

// Validate checks the request before any credential lookup or network call.
func (r EnhancementRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return NewEnhanceError(ErrorInvalidRequest, "Please select some text first.", nil)
	}
	if !r.Kind.Valid() {
		return NewEnhanceError(ErrorInvalidRequest, fmt.Sprintf("Unknown enhancement type %q.", r.Kind), nil)
	}
	if r.Kind == EnhancementCustom && (strings.TrimSpace(r.Style) == "" || strings.TrimSpace(r.Tone) == "") {
		return NewEnhanceError(ErrorInvalidRequest, "Please choose both a style and a tone.", nil)
	}
	return nil
}
