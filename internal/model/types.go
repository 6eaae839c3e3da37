// Package model defines the shared error types and exit codes for layerconf.
//
// Every error that crosses a package boundary and carries meaning for the
// caller is a typed value defined here, so that callers can branch on it
// with errors.As instead of matching message strings:
//
//   - MergeError: a type conflict found by the deep merge engine
//   - CapabilityError: a value implements none of the required interfaces
//   - DirectoryCreationError: a declared directory could not be materialized
//   - CLIError: any error annotated with a process exit code
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// environmentRegex validates environment names: alphanumeric, hyphens and
// underscores, starting with an alphanumeric character. Environment names
// are used to build file names, so path separators and dots are rejected.
var environmentRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateEnvironment checks whether name can be used as an environment
// identifier.
func ValidateEnvironment(name string) error {
	if name == "" {
		return fmt.Errorf("environment name must not be empty")
	}
	if !environmentRegex.MatchString(name) {
		return fmt.Errorf("invalid environment name %q: must contain only alphanumeric characters, hyphens and underscores, and start with alphanumeric", name)
	}
	return nil
}

// MergeError reports a type conflict found while deep-merging two
// configuration trees. Path is the dotted location of the conflict, From is
// the type name of the existing value and To the type name of the incoming
// one (for example "string" and "integer").
type MergeError struct {
	Path string
	From string
	To   string
}

// Error satisfies the error interface.
func (e *MergeError) Error() string {
	return fmt.Sprintf("Type conversion from %q to %q at path %q", e.From, e.To, e.Path)
}

// CapabilityError reports that a value implements none of the interfaces a
// component needs. Required lists the interface names, Actual is the Go
// type of the offending value.
type CapabilityError struct {
	Required []string
	Actual   string
}

// Error satisfies the error interface.
func (e *CapabilityError) Error() string {
	quoted := make([]string, 0, len(e.Required))
	for _, name := range e.Required {
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("missing interface %s, got %q", quoted[0], e.Actual)
	}
	return fmt.Sprintf("expected a value implementing one of %s, got %q", strings.Join(quoted, " or "), e.Actual)
}

// DirectoryCreationError reports that a declared directory could not be
// created, or that something other than a directory occupies its path.
type DirectoryCreationError struct {
	Name string
	Path string
	Err  error
}

// Error satisfies the error interface.
func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("directory with name %q at path %q could not be created: %v", e.Name, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// ExitCode defines the process exit codes of the layerconf CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUnsupportedDirectories indicates that directory names were
	// requested which are not declared by the active configuration.
	// Nothing was cleaned.
	ExitUnsupportedDirectories ExitCode = 1

	// ExitCleanFailed indicates that at least one declared directory could
	// not be cleaned. The remaining directories were still processed.
	ExitCleanFailed ExitCode = 2
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description. An empty message
	// means the command already reported the problem on its own output and
	// only the exit code remains to be returned.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", int(e.Code))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// IsSilent reports whether the error only carries an exit code.
func (e *CLIError) IsSilent() bool {
	return e.Message == ""
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitError creates a CLIError that only carries an exit code.
func ExitError(code ExitCode) *CLIError {
	return &CLIError{Code: code}
}
