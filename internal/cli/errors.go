// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all docvault CLI commands.
//
// STANDARDIZED PATTERN:
//   - Handlers ALWAYS return errors (never just print and return nil)
//   - main decides how to display errors and which exit code to use
//
// ERROR HANDLING: Errors must not be silently ignored

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/files"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates server or connectivity error
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 6
)

// UsageError marks an error caused by invalid command usage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// usageErrorf builds a UsageError with a formatted message.
func usageErrorf(format string, a ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, a...)}
}

// ExitCode maps an error to the appropriate process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var validation *auth.ValidationError
	var upload *files.UploadError

	switch {
	case errors.As(err, &usage), errors.As(err, &validation), errors.As(err, &upload):
		return ExitUsageError
	case errors.Is(err, api.ErrAuthRequired), errors.Is(err, api.ErrAuthFailed), errors.Is(err, api.ErrForbidden):
		return ExitAuthError
	case errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, api.ErrServerError), errors.Is(err, api.ErrNotConfigured):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// Exit prints the error (if any) to stderr and terminates the process
// with the mapped exit code.
func Exit(err error) {
	if err == nil {
		os.Exit(ExitSuccess)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)

	switch {
	case errors.Is(err, api.ErrAuthRequired):
		fmt.Fprintln(os.Stderr, MutedStyle.Render("Run 'docvault login' to authenticate."))
	case errors.Is(err, api.ErrForbidden):
		fmt.Fprintln(os.Stderr, MutedStyle.Render("This command needs a role with more access."))
	case errors.Is(err, api.ErrNotConfigured):
		fmt.Fprintln(os.Stderr, MutedStyle.Render("Set the server URL with 'docvault config set server.base_url URL'."))
	}

	os.Exit(ExitCode(err))
}
