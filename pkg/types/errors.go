package types

import (
	"errors"
	"fmt"
)

// Domain errors for type validation
var (
	ErrInvalidLineNum = errors.New("line number must be >= 1")
	ErrInvalidScore   = errors.New("score must be between -1 and 1")
	ErrMissingFile    = errors.New("file path is required")
)

// FileError records a failed filesystem operation on a specific input file.
type FileError struct {
	Op   string // "open", "read", "hash"
	Path string
	Err  error
}

// NewFileError wraps err with the operation and path that produced it.
func NewFileError(op, path string, err error) *FileError {
	return &FileError{Op: op, Path: path, Err: err}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
