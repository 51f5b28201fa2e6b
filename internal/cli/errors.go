// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all aiexport commands.
//
// Handlers ALWAYS return errors instead of printing and swallowing them;
// Run displays the error once and maps it to an exit code. Per-item export
// failures never reach here: they are aggregated inside the batch run and
// do not change the exit code.

package cli

import (
	"errors"
	"fmt"
	"os"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution, including runs that
	// found zero resources.
	ExitSuccess = 0
	// ExitGeneralError indicates a fatal error: missing configuration,
	// a lister failure, or any other error a handler returns.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError indicates the command line itself was wrong.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageError creates a usage error.
func NewUsageError(format string, args ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// CommandError represents a command failure with context.
type CommandError struct {
	Command string // Command that failed (e.g., "sessions", "pdf")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a command error.
func NewCommandError(command, reason string, err error) error {
	return &CommandError{Command: command, Reason: reason, Err: err}
}

// =============================================================================
// ERROR DISPLAY AND EXIT CODES
// =============================================================================

// DisplayError prints an error in a consistent format on stderr.
func DisplayError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode maps an error to a process exit code. Usage errors exit 2;
// everything else fatal exits 1.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}
	return ExitGeneralError
}
