package model

import (
	"errors"
	"fmt"
)

// ExitCode defines the CLI exit codes. Each scaffolding failure kind has
// its own code so that scripts can react to the kind of failure.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitSecurityViolation indicates the target path escaped the base directory.
	ExitSecurityViolation ExitCode = 2

	// ExitDirectoryCreation indicates a directory could not be created.
	ExitDirectoryCreation ExitCode = 3

	// ExitFileCreation indicates a file could not be created.
	ExitFileCreation ExitCode = 4

	// ExitInvalidPattern indicates an unknown or malformed pattern.
	ExitInvalidPattern ExitCode = 5

	// ExitGitError indicates a Git operation (init) failed.
	ExitGitError ExitCode = 6

	// ExitConfigError indicates the configuration file could not be loaded.
	ExitConfigError ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor maps a scaffolding error to its exit code. A CLIError
// anywhere in the chain wins; otherwise the failure kind decides.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	switch ErrorKind(err) {
	case "security_violation":
		return ExitSecurityViolation
	case "directory_creation":
		return ExitDirectoryCreation
	case "file_creation":
		return ExitFileCreation
	case "invalid_pattern":
		return ExitInvalidPattern
	default:
		return ExitGeneralError
	}
}
