// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// staticTokens is a TokenSource with a fixed access token.
type staticTokens struct {
	token string
}

func (s staticTokens) AccessToken() string { return s.token }

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestAuthorizationHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user": {"id": 1}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok-abc"})
	if _, err := client.UserInfo(context.Background()); err != nil {
		t.Fatalf("UserInfo failed: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-abc")
	}
}

func TestNoAuthorizationHeaderWithoutSession(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access": "a", "refresh": "r"}`))
	}))
	defer server.Close()

	// Empty token and nil source both mean anonymous
	for name, src := range map[string]TokenSource{"empty": staticTokens{}, "nil": nil} {
		gotAuth = "unset"
		client := NewClient(server.URL, src)
		if _, err := client.Login(context.Background(), "alice", "secret123"); err != nil {
			t.Fatalf("%s: Login failed: %v", name, err)
		}
		if gotAuth != "" {
			t.Errorf("%s: Authorization = %q, want empty", name, gotAuth)
		}
	}
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "invalid credentials"}`, ErrAuthFailed},
		{"unauthorized no body", http.StatusUnauthorized, ``, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, `{"detail": "admin only"}`, ErrForbidden},
		{"not found", http.StatusNotFound, `{"detail": "no such file"}`, ErrNotFound},
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`, ErrServerError},
		{"bad gateway", http.StatusBadGateway, ``, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil).WithMaxRetries(0)
			_, err := client.UserInfo(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestBadRequestYieldsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "caption required", "code": "missing_caption"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	err := client.Register(context.Background(), "bob", "bob@example.com", "secret123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", apiErr.Status)
	}
	if apiErr.Code != "missing_caption" {
		t.Errorf("Code = %q, want missing_caption", apiErr.Code)
	}
	if apiErr.Message != "caption required" {
		t.Errorf("Message = %q, want caption required", apiErr.Message)
	}
}

// =============================================================================
// RETRY TESTS
// =============================================================================

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"user": {"id": 5, "username": "alice"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil).WithMaxRetries(2)
	profile, err := client.UserInfo(context.Background())
	if err != nil {
		t.Fatalf("UserInfo failed after retries: %v", err)
	}
	if profile.ID != 5 {
		t.Errorf("ID = %d, want 5", profile.ID)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestDoesNotRetryAuthFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil).WithMaxRetries(3)
	_, err := client.UserInfo(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1", got)
	}
}

func TestRetriesExhaustedReportsLastError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil).WithMaxRetries(1)
	_, err := client.UserInfo(context.Background())
	if !errors.Is(err, ErrServerError) {
		t.Fatalf("err = %v, want ErrServerError", err)
	}
}

// =============================================================================
// ENDPOINT SHAPE TESTS
// =============================================================================

func TestLoginParsesTokenPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/users/login/" {
			t.Errorf("path = %s, want /api/users/login/", r.URL.Path)
		}
		w.Write([]byte(`{"access": "acc-1", "refresh": "ref-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	pair, err := client.Login(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.Access != "acc-1" || pair.Refresh != "ref-1" {
		t.Errorf("pair = %+v, want acc-1/ref-1", pair)
	}
}

func TestUpdateUserRoleRequest(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"id": 7, "username": "bob", "role_id": 2}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"})
	updated, err := client.UpdateUserRole(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("UpdateUserRole failed: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/api/users/7/role/" {
		t.Errorf("path = %s, want /api/users/7/role/", gotPath)
	}
	if gotBody != `{"role_id":2}` {
		t.Errorf("body = %s, want {\"role_id\":2}", gotBody)
	}
	if updated.RoleID != 2 {
		t.Errorf("RoleID = %d, want 2", updated.RoleID)
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	client := NewClient("http://example.com:8000/", nil)
	if client.BaseURL() != "http://example.com:8000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", client.BaseURL())
	}
}
