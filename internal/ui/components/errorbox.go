// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BOX
// =============================================================================

// ErrorBox renders an error with a short title and a suggestion line
// keyed off the error kind.
type ErrorBox struct {
	theme *styles.Theme
}

// NewErrorBox creates an error box renderer.
func NewErrorBox(theme *styles.Theme) ErrorBox {
	return ErrorBox{theme: theme}
}

// View renders err inside a bordered box. Returns "" for nil.
func (b ErrorBox) View(err error, width int) string {
	if err == nil {
		return ""
	}
	title, hint := classify(err)
	body := b.theme.ErrorTitle.Render(title) + "\n" + err.Error()
	if hint != "" {
		body += "\n" + b.theme.MutedText.Render(hint)
	}
	return b.theme.ErrorBox.Width(width - 2).Render(body)
}

// classify maps an error to a title and a next-step hint.
func classify(err error) (title, hint string) {
	var vErr *auth.ValidationError
	var uErr *files.UploadError
	switch {
	case errors.As(err, &vErr):
		return "Invalid input", "Fix the highlighted field and try again."
	case errors.As(err, &uErr):
		return "Upload rejected", "Only PDF and Word documents are accepted."
	case errors.Is(err, api.ErrAuthRequired):
		return "Login required", "Log in and retry."
	case errors.Is(err, api.ErrAuthFailed):
		return "Authentication failed", "Check your credentials or log in again."
	case errors.Is(err, api.ErrForbidden):
		return "Permission denied", "Your role does not allow this action."
	case errors.Is(err, api.ErrServerError):
		return "Server error", "The backend had a problem. Try again shortly."
	case errors.Is(err, api.ErrNotConfigured):
		return "No server configured", "Set server.base_url in ~/.docvault/config.toml."
	default:
		return "Error", ""
	}
}
