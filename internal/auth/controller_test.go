// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/storage"
)

// newTestController wires a controller against a test server with a
// token store in a temp directory.
func newTestController(t *testing.T, handler http.Handler) (*Controller, *storage.TokenStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := storage.NewTokenStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTokenStore failed: %v", err)
	}
	client := api.NewClient(server.URL, store).WithMaxRetries(0)
	return NewController(client, store, nil), store, server
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "alice", "pw", false},
		{"empty username", "", "pw", true},
		{"whitespace username", "   ", "pw", true},
		{"empty password", "alice", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, &ValidationError{}) {
				t.Errorf("error %v is not a ValidationError", err)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		field    string
	}{
		{"valid", "alice", "alice@example.com", "longenough", "longenough", ""},
		{"empty username", "", "alice@example.com", "longenough", "longenough", "username"},
		{"empty email", "alice", "", "longenough", "longenough", "email"},
		{"email without at", "alice", "not-an-email", "longenough", "longenough", "email"},
		{"short password", "alice", "alice@example.com", "short", "short", "password"},
		{"mismatched confirmation", "alice", "alice@example.com", "longenough", "different1", "password"},
		{"empty confirmation", "alice", "alice@example.com", "longenough", "", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.email, tt.password, tt.confirm)
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestLoginValidationShortCircuits(t *testing.T) {
	var calls atomic.Int32
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	err := ctrl.Login(context.Background(), "", "pw")
	if !errors.Is(err, &ValidationError{}) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if calls.Load() != 0 {
		t.Error("rejected input must not reach the network")
	}
	if ctrl.Session().Status != StatusIdle {
		t.Errorf("Status = %v, want StatusIdle after local rejection", ctrl.Session().Status)
	}
}

func TestRegisterConfirmationShortCircuits(t *testing.T) {
	var calls atomic.Int32
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	err := ctrl.Register(context.Background(), "alice", "alice@example.com", "longenough", "different1")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "password" {
		t.Fatalf("err = %v, want ValidationError on password", err)
	}
	if calls.Load() != 0 {
		t.Error("mismatched confirmation must not reach the network")
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLoginSuccess(t *testing.T) {
	ctrl, store, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
	}))

	before := ctrl.Epoch()
	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	session := ctrl.Session()
	if session.Status != StatusSucceeded || !session.Authed {
		t.Errorf("session = %+v, want authenticated", session)
	}
	if !store.HasTokens() {
		t.Error("token pair was not persisted")
	}
	if store.AccessToken() != "acc" {
		t.Errorf("AccessToken = %q, want acc", store.AccessToken())
	}
	if ctrl.Epoch() == before {
		t.Error("epoch must advance on login")
	}
}

func TestLoginFailure(t *testing.T) {
	ctrl, store, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid credentials"}`))
	}))

	err := ctrl.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, api.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}

	session := ctrl.Session()
	if session.Status != StatusFailed || session.Authed {
		t.Errorf("session = %+v, want failed and unauthenticated", session)
	}
	if store.HasTokens() {
		t.Error("no tokens may be stored after a failed login")
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestFetchProfileOncePerEpoch(t *testing.T) {
	var infoCalls atomic.Int32
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
		case "/api/users/info/":
			infoCalls.Add(1)
			w.Write([]byte(`{"user": {"id": 4, "username": "alice", "role_id": 3}}`))
		}
	}))

	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		profile, err := ctrl.FetchProfile(context.Background())
		if err != nil {
			t.Fatalf("FetchProfile #%d failed: %v", i, err)
		}
		if profile.Username != "alice" {
			t.Errorf("Username = %q", profile.Username)
		}
	}
	if got := infoCalls.Load(); got != 1 {
		t.Errorf("info endpoint saw %d calls, want 1", got)
	}
}

func TestFetchProfileWithoutSession(t *testing.T) {
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unauthenticated fetch must not reach the network")
	}))

	_, err := ctrl.FetchProfile(context.Background())
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestFetchProfileRejectedTokenForcesLogout(t *testing.T) {
	ctrl, store, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))

	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatal(err)
	}
	epoch := ctrl.Epoch()

	_, err := ctrl.FetchProfile(context.Background())
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if ctrl.Session().Authed {
		t.Error("session must be torn down after a rejected token")
	}
	if store.HasTokens() {
		t.Error("dead tokens must be cleared")
	}
	if ctrl.StillValid(epoch) {
		t.Error("epoch must advance on forced logout")
	}
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogoutClearsLocallyEvenWhenRevokeFails(t *testing.T) {
	ctrl, store, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
		case "/api/users/logout/":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatal(err)
	}

	err := ctrl.Logout(context.Background())
	if err == nil {
		t.Fatal("the revoke failure must be surfaced")
	}
	if ctrl.Session().Authed {
		t.Error("client must be logged out locally regardless of the revoke outcome")
	}
	if store.HasTokens() {
		t.Error("token pair must be removed")
	}
}

func TestLogoutSendsRefreshToken(t *testing.T) {
	var gotRefresh string
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref-77"}`))
		case "/api/users/logout/":
			var body struct {
				Refresh string `json:"refresh"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("bad logout body: %v", err)
				return
			}
			gotRefresh = body.Refresh
		}
	}))

	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if gotRefresh != "ref-77" {
		t.Errorf("refresh = %q, want ref-77", gotRefresh)
	}
}

// =============================================================================
// EPOCH TESTS
// =============================================================================

func TestEpochInvalidation(t *testing.T) {
	ctrl, _, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
	}))

	if err := ctrl.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatal(err)
	}
	snapshot := ctrl.Epoch()
	if !ctrl.StillValid(snapshot) {
		t.Fatal("fresh snapshot should be valid")
	}

	if err := ctrl.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ctrl.StillValid(snapshot) {
		t.Error("snapshot from before logout must be stale")
	}
}

func TestControllerAdoptsExistingSession(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewTokenStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(storage.TokenPair{Access: "acc", Refresh: "ref"}); err != nil {
		t.Fatal(err)
	}

	// A second store over the same directory sees the saved pair, the
	// same way a new process start would.
	reopened, err := storage.NewTokenStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctrl := NewController(api.NewClient("http://localhost:1", reopened), reopened, nil)
	if !ctrl.Session().Authed {
		t.Error("stored tokens should yield an authenticated session at startup")
	}
}
