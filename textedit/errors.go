package textedit

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound is returned when the start marker of a block never
	// appears in the document. The document is not modified.
	ErrMarkerNotFound = errors.New("start marker not found")
	// ErrEndMarkerNotFound is returned, only when the editor requires it, if a
	// block was opened but never closed before end of file.
	ErrEndMarkerNotFound = errors.New("end marker not found")
)

// ResourceError wraps a failure of the underlying storage while reading or
// replacing a document.
type ResourceError struct {
	Op   string
	Path string // empty when editing plain streams
	Err  error
}

func (e *ResourceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func resourceErr(op, path string, err error) error {
	return &ResourceError{Op: op, Path: path, Err: err}
}
