// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/config"
	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// Deps bundles the controllers every screen needs. One value is built
// at startup and shared; screens never construct their own.
type Deps struct {
	Cfg     *config.Config
	Theme   *styles.Theme
	Auth    *auth.Controller
	API     *api.Client
	Tracker *files.Tracker
	Picker  *files.PickerWatcher
}

// requestTimeout bounds every command-driven backend call.
func (d Deps) requestTimeout() time.Duration {
	return d.Cfg.Server.Timeout()
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

// LoginCmd runs a login attempt. Inputs are captured before the
// goroutine starts.
func LoginCmd(d Deps, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		err := d.Auth.Login(ctx, username, password)
		return LoginResultMsg{Epoch: d.Auth.Epoch(), Err: err}
	}
}

// RegisterCmd runs a registration attempt.
func RegisterCmd(d Deps, username, email, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		err := d.Auth.Register(ctx, username, email, password, confirm)
		return RegisterResultMsg{Epoch: d.Auth.Epoch(), Err: err}
	}
}

// FetchProfileCmd loads the profile for the current session.
func FetchProfileCmd(d Deps) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		profile, err := d.Auth.FetchProfile(ctx)
		return ProfileLoadedMsg{Epoch: epoch, Profile: profile, Err: err}
	}
}

// LogoutCmd tears the session down.
func LogoutCmd(d Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		err := d.Auth.Logout(ctx)
		d.Tracker.Reset()
		return LogoutDoneMsg{Err: err}
	}
}

// =============================================================================
// DOCUMENT COMMANDS
// =============================================================================

// RefreshFilesCmd fetches the document listing.
func RefreshFilesCmd(d Deps) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		list, err := d.Tracker.Refresh(ctx)
		return FilesLoadedMsg{Epoch: epoch, Files: list, Err: err}
	}
}

// UploadCmd uploads a document with its caption.
func UploadCmd(d Deps, path, caption string) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		// Uploads of large documents can outlast the normal request
		// timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 3*d.requestTimeout())
		defer cancel()
		uploaded, err := d.Tracker.Upload(ctx, path, caption)
		return UploadDoneMsg{Epoch: epoch, File: uploaded, Err: err}
	}
}

// TriggerProcessingCmd asks the backend to ingest a document.
func TriggerProcessingCmd(d Deps, fileID int) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		// Ingestion is slow for big documents; allow it extra time.
		ctx, cancel := context.WithTimeout(context.Background(), 3*d.requestTimeout())
		defer cancel()
		err := d.Tracker.TriggerProcessing(ctx, fileID)
		return ProcessingDoneMsg{Epoch: epoch, FileID: fileID, Err: err}
	}
}

// WaitPickerCmd blocks until the pick-up directory changes.
func WaitPickerCmd(d Deps) tea.Cmd {
	if d.Picker == nil {
		return nil
	}
	ch := d.Picker.Changed()
	return func() tea.Msg {
		<-ch
		return PickerChangedMsg{}
	}
}

// =============================================================================
// CHAT COMMANDS
// =============================================================================

// AskCmd sends a question and routes the reply to a transcript entry.
func AskCmd(d Deps, userID int, entryID, question string) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		// Retrieval queries routinely outlast plain API calls.
		ctx, cancel := context.WithTimeout(context.Background(), 3*d.requestTimeout())
		defer cancel()
		result, err := d.API.Query(ctx, userID, question)
		return AnswerMsg{Epoch: epoch, EntryID: entryID, Answer: result.Answer, Err: err}
	}
}

// LoadHistoryCmd fetches the stored chat history for a user.
func LoadHistoryCmd(d Deps, userID int) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		history, err := d.API.ChatHistory(ctx, userID)
		return HistoryLoadedMsg{Epoch: epoch, History: history, Err: err}
	}
}

// =============================================================================
// USER MANAGEMENT COMMANDS
// =============================================================================

// LoadUsersCmd fetches the account listing.
func LoadUsersCmd(d Deps) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		users, err := d.API.AllUsers(ctx)
		return UsersLoadedMsg{Epoch: epoch, Users: users, Err: err}
	}
}

// UpdateRoleCmd changes a user's role.
func UpdateRoleCmd(d Deps, userID int, role model.Role) tea.Cmd {
	epoch := d.Auth.Epoch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.requestTimeout())
		defer cancel()
		user, err := d.API.UpdateUserRole(ctx, userID, role)
		return RoleUpdatedMsg{Epoch: epoch, User: user, Err: err}
	}
}
