package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPath is returned when a caller supplies an empty target path.
var ErrEmptyPath = errors.New("target path must not be empty")

// ErrUnknownPattern is returned when a pattern key does not name a catalog entry.
var ErrUnknownPattern = errors.New("unknown pattern")

// SecurityViolationError reports a target path that resolves outside the
// authorized base directory. It is never retried.
type SecurityViolationError struct {
	// Path is the caller-supplied input, verbatim.
	Path string

	// BaseDir is the authorized root the input was resolved against.
	BaseDir string
}

// Error implements the error interface.
func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("security violation: path %q resolves outside of %s", e.Path, e.BaseDir)
}

// DirectoryCreationError wraps a filesystem failure while creating a directory.
type DirectoryCreationError struct {
	// Path is the absolute directory path that could not be created.
	Path string

	// Err is the underlying I/O error.
	Err error
}

// Error implements the error interface.
func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// FileCreationError wraps a filesystem failure while creating a file, for
// any cause other than the file already existing.
type FileCreationError struct {
	// Path is the absolute file path that could not be created.
	Path string

	// Err is the underlying error. It may itself be a DirectoryCreationError
	// when the parent chain could not be created.
	Err error
}

// Error implements the error interface.
func (e *FileCreationError) Error() string {
	return fmt.Sprintf("failed to create file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileCreationError) Unwrap() error {
	return e.Err
}

// ValidationError is a single problem found in a pattern definition or a
// configuration file.
type ValidationError struct {
	// Field locates the problem, e.g. "files[2].path".
	Field string

	// Message describes what is wrong with the value.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidPatternError reports that a pattern failed validation and was not
// applied. No filesystem writes happen before this error is returned.
type InvalidPatternError struct {
	// Label names the offending pattern.
	Label string

	// Problems lists every validation failure found.
	Problems []ValidationError
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i := range e.Problems {
		msgs[i] = e.Problems[i].Error()
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Label, strings.Join(msgs, "; "))
}

// ErrorKind returns a short, stable name for the failure kind of err.
// The CLI and the MCP server both use it so scripts can branch on the kind
// without parsing messages.
func ErrorKind(err error) string {
	var secErr *SecurityViolationError
	var dirErr *DirectoryCreationError
	var fileErr *FileCreationError
	var patErr *InvalidPatternError

	// FileCreationError is checked before DirectoryCreationError because a
	// failed parent chain is reported as a file failure wrapping a dir failure.
	switch {
	case err == nil:
		return ""
	case errors.As(err, &secErr):
		return "security_violation"
	case errors.As(err, &fileErr):
		return "file_creation"
	case errors.As(err, &dirErr):
		return "directory_creation"
	case errors.As(err, &patErr), errors.Is(err, ErrUnknownPattern):
		return "invalid_pattern"
	case errors.Is(err, ErrEmptyPath):
		return "invalid_argument"
	default:
		return "internal"
	}
}
