// Package errors provides structured CLI error types for Perch.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI errors.
const (
	ExitSuccess = 0  // Successful execution
	ExitGeneral = 1  // General error
	ExitConfig  = 4  // Configuration error
	ExitBridge  = 7  // Host bridge failure (bad event stream)
	ExitUsage   = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// ConfigInvalid returns an error for an unreadable or malformed config file.
func ConfigInvalid(cause error) *CLIError {
	return &CLIError{
		Message: "Configuration invalid",
		Hint:    "Check ~/.config/perch/config.yaml or run 'perch config list'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ConfigWriteFailed returns an error for a failed config persist.
func ConfigWriteFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Could not write configuration",
		Hint:    "Check permissions on ~/.config/perch",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// BridgeClosed returns an error for a host bridge that ended unexpectedly.
func BridgeClosed(cause error) *CLIError {
	return &CLIError{
		Message: "Host event stream closed unexpectedly",
		Hint:    "perch run expects the host to pipe lifecycle events on stdin",
		Cause:   cause,
		Code:    ExitBridge,
	}
}

// NotATerminal returns an error for interactive commands run without a TTY.
func NotATerminal(command string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("'%s' requires an interactive terminal", command),
		Hint:    "Run from a terminal, not a pipe",
		Code:    ExitUsage,
	}
}
