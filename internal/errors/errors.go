// Package errors defines the pipeline error taxonomy.
//
// Row-level and source-level problems never surface as Go errors; they are
// collected as domain.Diagnostic values and returned alongside the stage
// result. Only fatal conditions — a reference table that cannot be used at
// all — become errors, and those carry enough context to name the offending
// source.
package errors

import (
	"errors"
	"fmt"
)

// ErrFatalSource marks errors that make safe reconciliation impossible.
// Callers use errors.Is to distinguish a fatal abort from partial success.
var ErrFatalSource = errors.New("fatal source error")

// SourceError is a fatal error attributed to a single input source.
type SourceError struct {
	Source string // logical source name, e.g. "products"
	Path   string // file path when known
	Err    error
}

func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s (%s): %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes every SourceError match ErrFatalSource.
func (e *SourceError) Is(target error) bool { return target == ErrFatalSource }

// NewSourceError builds a fatal source error.
func NewSourceError(source, path string, err error) *SourceError {
	return &SourceError{Source: source, Path: path, Err: err}
}

// Unparsable reports a reference table that is present but structurally
// unusable (missing required columns, unreadable format).
func Unparsable(source, path, detail string) *SourceError {
	return &SourceError{Source: source, Path: path, Err: fmt.Errorf("unparsable: %s", detail)}
}
