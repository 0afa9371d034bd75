// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the client's authentication session lifecycle:
// login, registration, lazy profile fetch, and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/storage"
)

// MinPasswordLength is the minimum accepted password length for
// registration. Login accepts any non-empty password: the account may
// predate the rule and the backend has the final say.
const MinPasswordLength = 8

// Status describes where the session is in its lifecycle.
type Status int

const (
	// StatusIdle means no authentication attempt is in progress and
	// none has completed in this session.
	StatusIdle Status = iota
	// StatusLoading means a login request is in flight.
	StatusLoading
	// StatusSucceeded means the session holds a valid token pair.
	StatusSucceeded
	// StatusFailed means the last login attempt failed.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidationError reports locally rejected input. No request has been
// made when this error is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is makes all ValidationErrors match each other for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// Session is a point-in-time snapshot of the authentication state.
type Session struct {
	Status  Status
	Authed  bool
	Profile *model.UserProfile
	Err     error
}

// =============================================================================
// SESSION CONTROLLER
// =============================================================================

// Controller owns the session state machine. The token store and API
// client are injected; the controller is the only writer of both the
// in-memory session and the durable token pair.
//
// Controller is safe for concurrent use. Async callers snapshot
// Epoch() before starting work and pass it back with the result; a
// result carrying a stale epoch is dropped.
type Controller struct {
	mu      sync.RWMutex
	client  *api.Client
	store   *storage.TokenStore
	journal *storage.Journal

	status  Status
	profile *model.UserProfile
	lastErr error
	epoch   uint64
}

// NewController creates a session controller. The journal may be nil.
// A token pair already present in the store yields an immediately
// authenticated session with the profile not yet fetched.
func NewController(client *api.Client, store *storage.TokenStore, journal *storage.Journal) *Controller {
	c := &Controller{
		client:  client,
		store:   store,
		journal: journal,
	}
	if store.HasTokens() {
		c.status = StatusSucceeded
	}
	return c
}

// Session returns a snapshot of the current session state.
func (c *Controller) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Session{
		Status:  c.status,
		Authed:  c.status == StatusSucceeded && c.store.HasTokens(),
		Profile: c.profile,
		Err:     c.lastErr,
	}
}

// Epoch returns the current session epoch. The epoch advances on
// every login and logout; results computed under an old epoch must be
// discarded.
func (c *Controller) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// StillValid reports whether an epoch snapshot is still current.
func (c *Controller) StillValid(epoch uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch == epoch
}

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// ValidateCredentials checks login input without touching the network.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Message: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "must not be empty"}
	}
	return nil
}

// ValidateRegistration checks registration input without touching the
// network.
func ValidateRegistration(username, email, password, confirm string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Message: "must not be empty"}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "must be an email address"}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	if confirm != password {
		return &ValidationError{Field: "password", Message: "passwords do not match"}
	}
	return nil
}

// Login authenticates with the backend and persists the token pair.
// Input is validated first; a ValidationError means no request was
// made. On success the session transitions to StatusSucceeded and the
// epoch advances.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if err := ValidateCredentials(username, password); err != nil {
		return err
	}

	c.mu.Lock()
	c.status = StatusLoading
	c.lastErr = nil
	c.mu.Unlock()

	pair, err := c.client.Login(ctx, username, password)
	if err != nil {
		c.mu.Lock()
		c.status = StatusFailed
		c.lastErr = err
		c.mu.Unlock()
		c.record(ctx, storage.EventLogin, username, false)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(storage.TokenPair{Access: pair.Access, Refresh: pair.Refresh}); err != nil {
		c.status = StatusFailed
		c.lastErr = err
		return fmt.Errorf("failed to persist session: %w", err)
	}
	c.status = StatusSucceeded
	c.profile = nil
	c.epoch++
	go c.record(context.WithoutCancel(ctx), storage.EventLogin, username, true)
	return nil
}

// Register creates a new account. The session state is untouched:
// registration does not log in.
func (c *Controller) Register(ctx context.Context, username, email, password, confirm string) error {
	if err := ValidateRegistration(username, email, password, confirm); err != nil {
		return err
	}
	err := c.client.Register(ctx, username, email, password)
	c.record(ctx, storage.EventRegister, username, err == nil)
	return err
}

// =============================================================================
// PROFILE
// =============================================================================

// FetchProfile loads the user profile if it has not been loaded in
// this session epoch. A cached profile is returned without a request.
// A 401 means the stored tokens are dead: the session is torn down
// locally and api.ErrAuthRequired is returned.
func (c *Controller) FetchProfile(ctx context.Context) (*model.UserProfile, error) {
	c.mu.RLock()
	if c.profile != nil {
		p := c.profile
		c.mu.RUnlock()
		return p, nil
	}
	authed := c.status == StatusSucceeded && c.store.HasTokens()
	epoch := c.epoch
	c.mu.RUnlock()

	if !authed {
		return nil, api.ErrAuthRequired
	}

	profile, err := c.client.UserInfo(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthFailed) {
			c.forceLogout()
			return nil, fmt.Errorf("%w: session expired", api.ErrAuthRequired)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A logout raced the fetch: drop the result.
	if c.epoch != epoch {
		return nil, api.ErrAuthRequired
	}
	if c.profile == nil {
		c.profile = &profile
	}
	return c.profile, nil
}

// Profile returns the cached profile, or nil if none has been fetched.
func (c *Controller) Profile() *model.UserProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout revokes the refresh token on the backend, then clears local
// state. Local state is cleared even when the revoke call fails, so
// the client always ends up logged out; the remote error is still
// returned for the UI to surface.
func (c *Controller) Logout(ctx context.Context) error {
	pair := c.store.Pair()

	var revokeErr error
	if pair.Refresh != "" {
		revokeErr = c.client.Logout(ctx, pair.Refresh)
	}

	c.forceLogout()
	c.record(ctx, storage.EventLogout, "", revokeErr == nil)
	if revokeErr != nil {
		return fmt.Errorf("session cleared locally, server revoke failed: %w", revokeErr)
	}
	return nil
}

// forceLogout clears the session locally and advances the epoch.
func (c *Controller) forceLogout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Best effort: a failed file removal still logs the client out in
	// memory, and the next Save overwrites the file anyway.
	_ = c.store.Clear()
	c.status = StatusIdle
	c.profile = nil
	c.lastErr = nil
	c.epoch++
}

// record writes to the activity journal when one is configured.
func (c *Controller) record(ctx context.Context, event, detail string, ok bool) {
	if c.journal == nil {
		return
	}
	_ = c.journal.Record(ctx, event, detail, ok)
}
