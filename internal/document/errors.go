package document

import (
	"errors"
	"fmt"
)

// Kind is a coarse classification of document errors.
type Kind string

const (
	KindNone         Kind = ""
	KindInvalidName  Kind = "invalid_frame_name"
	KindMissingFrame Kind = "missing_frame"
	KindMissingData  Kind = "missing_data"
	KindMalformed    Kind = "malformed_json"
)

// InvalidFrameNameError is returned when a frame name cannot be safely
// turned into a path under the schema directory.
type InvalidFrameNameError struct {
	Name   string
	Reason string
}

func (e *InvalidFrameNameError) Error() string {
	return fmt.Sprintf("invalid frame name %q: %s", e.Name, e.Reason)
}

// MissingFrameError is returned when the frame file cannot be read.
type MissingFrameError struct {
	Name string
	Path string
	Err  error
}

func (e *MissingFrameError) Error() string {
	return fmt.Sprintf("frame %q not found at %s: %v", e.Name, e.Path, e.Err)
}

func (e *MissingFrameError) Unwrap() error { return e.Err }

// MissingDataError is returned when the data document cannot be read.
type MissingDataError struct {
	Path string
	Err  error
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("data document not found at %s: %v", e.Path, e.Err)
}

func (e *MissingDataError) Unwrap() error { return e.Err }

// MalformedJSONError is returned when a file is readable but is not a single
// well-formed JSON value. Line and Column are 1-based; zero when unknown.
type MalformedJSONError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *MalformedJSONError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: malformed JSON: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: malformed JSON: %v", e.Path, e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// KindOf classifies err, returning KindNone for errors from other packages.
func KindOf(err error) Kind {
	var (
		nameErr  *InvalidFrameNameError
		frameErr *MissingFrameError
		dataErr  *MissingDataError
		jsonErr  *MalformedJSONError
	)
	switch {
	case errors.As(err, &nameErr):
		return KindInvalidName
	case errors.As(err, &frameErr):
		return KindMissingFrame
	case errors.As(err, &dataErr):
		return KindMissingData
	case errors.As(err, &jsonErr):
		return KindMalformed
	default:
		return KindNone
	}
}
