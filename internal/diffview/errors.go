package diffview

import "errors"

// ErrReadOnly is returned by a Surface when its text is replaced while read-only.
var ErrReadOnly = errors.New("surface is read-only")

// DiffError wraps a failure of the external line differ.
// The session that produced it never reaches the ready state.
type DiffError struct {
	Op  string // Operation that failed, e.g. "side_by_side"
	Err error
}

// Error implements the error interface.
func (e *DiffError) Error() string {
	return "diff " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying differ error.
func (e *DiffError) Unwrap() error {
	return e.Err
}
