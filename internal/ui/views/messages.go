// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views provides the screens of the docvault TUI.
//
// This file defines all Bubble Tea message types exchanged between the
// screens and the top-level application model. Messages are organized
// into the following categories:
//   - Session: login, registration, profile, and logout results
//   - Documents: listing, upload, and processing results
//   - Chat: answers and stored history
//   - Users: admin listing and role changes
//   - Navigation: route switches and picker change signals
//
// Every result message carries the session epoch it was started under;
// the application model drops messages whose epoch is stale.
package views

import (
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/router"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// LoginResultMsg reports the outcome of a login attempt.
type LoginResultMsg struct {
	Epoch uint64
	Err   error
}

// RegisterResultMsg reports the outcome of a registration attempt.
type RegisterResultMsg struct {
	Epoch uint64
	Err   error
}

// ProfileLoadedMsg delivers the fetched user profile.
type ProfileLoadedMsg struct {
	Epoch   uint64
	Profile *model.UserProfile
	Err     error
}

// LogoutDoneMsg reports that logout completed. Err is the remote
// revoke failure, if any; the local session is gone either way.
type LogoutDoneMsg struct {
	Err error
}

// =============================================================================
// DOCUMENT MESSAGES
// =============================================================================

// FilesLoadedMsg delivers the refreshed document listing.
type FilesLoadedMsg struct {
	Epoch uint64
	Files []model.UploadedFile
	Err   error
}

// UploadDoneMsg reports the outcome of a document upload.
type UploadDoneMsg struct {
	Epoch uint64
	File  model.UploadedFile
	Err   error
}

// ProcessingDoneMsg reports the outcome of a processing trigger.
type ProcessingDoneMsg struct {
	Epoch  uint64
	FileID int
	Err    error
}

// PickerChangedMsg signals that the upload pick-up directory changed.
type PickerChangedMsg struct{}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// AnswerMsg delivers the backend's reply for a transcript entry.
type AnswerMsg struct {
	Epoch   uint64
	EntryID string
	Answer  string
	Err     error
}

// HistoryLoadedMsg delivers the stored chat history.
type HistoryLoadedMsg struct {
	Epoch   uint64
	History []model.HistoryExchange
	Err     error
}

// =============================================================================
// USER MANAGEMENT MESSAGES
// =============================================================================

// UsersLoadedMsg delivers the account listing for the admin view.
type UsersLoadedMsg struct {
	Epoch uint64
	Users []model.UserProfile
	Err   error
}

// RoleUpdatedMsg reports the outcome of a role change.
type RoleUpdatedMsg struct {
	Epoch uint64
	User  model.UserProfile
	Err   error
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// NavigateMsg asks the application model to switch routes.
type NavigateMsg struct {
	Route router.Route
}
