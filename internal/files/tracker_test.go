// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/api"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func newTestTracker(t *testing.T, handler http.Handler) (*Tracker, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, staticTokens("acc")).WithMaxRetries(0)
	return NewTracker(client, nil), server
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateUpload(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "handbook.pdf")
	if err := os.WriteFile(doc, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		caption string
		wantErr bool
	}{
		{"valid", doc, "handbook", false},
		{"empty path", "", "caption", true},
		{"unsupported type", filepath.Join(dir, "notes.txt"), "caption", true},
		{"missing file", filepath.Join(dir, "ghost.pdf"), "caption", true},
		{"directory", dir + ".pdf", "caption", true},
		{"empty caption", doc, "   ", true},
	}

	// A directory whose name ends in .pdf must still be rejected.
	if err := os.Mkdir(dir+".pdf", 0o755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir + ".pdf") })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.path, tt.caption)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, &UploadError{}) {
				t.Errorf("error %v is not an UploadError", err)
			}
		})
	}
}

func TestUploadRejectedLocally(t *testing.T) {
	tracker, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("rejected upload must not reach the network")
	}))

	_, err := tracker.Upload(context.Background(), "payload.sh", "caption")
	if !errors.Is(err, &UploadError{}) {
		t.Errorf("err = %v, want UploadError", err)
	}
}

// =============================================================================
// REFRESH TESTS
// =============================================================================

func TestRefreshWithoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("an unauthenticated refresh must not reach the network")
	}))
	t.Cleanup(server.Close)
	tracker := NewTracker(api.NewClient(server.URL, staticTokens("")).WithMaxRetries(0), nil)

	_, err := tracker.Refresh(context.Background())
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestRefreshReplacesListing(t *testing.T) {
	tracker, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "file_name": "a.pdf", "file_caption": "a", "uploaded_by": "alice", "raged": true},
			{"id": 2, "file_name": "b.docx", "file_caption": "b", "uploaded_by": "alice", "raged": false}
		]`))
	}))

	files, err := tracker.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if !files[0].Processed || files[1].Processed {
		t.Errorf("processed flags wrong: %+v", files)
	}
	if !tracker.Loaded() {
		t.Error("Loaded must be true after a successful refresh")
	}

	got, ok := tracker.File(2)
	if !ok || got.FileName != "b.docx" {
		t.Errorf("File(2) = %+v, %v", got, ok)
	}
}

func TestRefreshThrottleReturnsCachedList(t *testing.T) {
	var calls atomic.Int32
	tracker, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id": 1, "file_name": "a.pdf", "file_caption": "a", "uploaded_by": "alice", "raged": false}]`))
	}))

	// The limiter allows a burst of two; everything after that inside
	// the same window must serve from cache.
	for i := 0; i < 6; i++ {
		files, err := tracker.Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh #%d failed: %v", i, err)
		}
		if len(files) != 1 {
			t.Fatalf("Refresh #%d returned %d files", i, len(files))
		}
	}
	if got := calls.Load(); got > 2 {
		t.Errorf("backend saw %d listing calls, want at most 2", got)
	}
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUploadAppendsToLoadedListing(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "handbook.pdf")
	if err := os.WriteFile(doc, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	tracker, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/uploaded-files/":
			w.Write([]byte(`[]`))
		case "/api/users/upload/":
			w.Write([]byte(`{"id": 9, "file_name": "handbook.pdf", "file_caption": "handbook", "uploaded_by": "alice", "raged": false}`))
		}
	}))

	if _, err := tracker.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	uploaded, err := tracker.Upload(context.Background(), doc, "handbook")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if uploaded.ID != 9 {
		t.Errorf("ID = %d, want 9", uploaded.ID)
	}
	if files := tracker.Files(); len(files) != 1 || files[0].ID != 9 {
		t.Errorf("Files() = %+v, want the uploaded record", files)
	}
}

// =============================================================================
// PROCESSING TESTS
// =============================================================================

func processingFixture(t *testing.T, ragStatus *atomic.Int32) *Tracker {
	t.Helper()
	tracker, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/uploaded-files/":
			w.Write([]byte(`[
				{"id": 1, "file_name": "a.pdf", "file_caption": "a", "uploaded_by": "alice", "raged": false},
				{"id": 2, "file_name": "b.pdf", "file_caption": "b", "uploaded_by": "alice", "raged": true}
			]`))
		case "/api/genai/perform-rag/1/":
			ragStatus.Add(1)
			w.Write([]byte(`{}`))
		}
	}))
	if _, err := tracker.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return tracker
}

func TestTriggerProcessing(t *testing.T) {
	var ragCalls atomic.Int32
	tracker := processingFixture(t, &ragCalls)

	if err := tracker.TriggerProcessing(context.Background(), 1); err != nil {
		t.Fatalf("TriggerProcessing failed: %v", err)
	}
	if ragCalls.Load() != 1 {
		t.Errorf("rag endpoint saw %d calls, want 1", ragCalls.Load())
	}

	f, _ := tracker.File(1)
	if !f.Processed {
		t.Error("file must be marked processed after a successful trigger")
	}
	if tracker.InFlight(1) {
		t.Error("in-flight flag must be cleared")
	}
}

func TestTriggerProcessingAlreadyProcessed(t *testing.T) {
	var ragCalls atomic.Int32
	tracker := processingFixture(t, &ragCalls)

	err := tracker.TriggerProcessing(context.Background(), 2)
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed", err)
	}
	if ragCalls.Load() != 0 {
		t.Error("a processed file must not be re-requested")
	}
}

func TestTriggerProcessingUnknownFile(t *testing.T) {
	var ragCalls atomic.Int32
	tracker := processingFixture(t, &ragCalls)

	if err := tracker.TriggerProcessing(context.Background(), 404); !errors.Is(err, ErrUnknownFile) {
		t.Fatalf("err = %v, want ErrUnknownFile", err)
	}
}

func TestTriggerProcessingSecondTriggerAfterSuccess(t *testing.T) {
	var ragCalls atomic.Int32
	tracker := processingFixture(t, &ragCalls)

	if err := tracker.TriggerProcessing(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := tracker.TriggerProcessing(context.Background(), 1); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed on the second trigger", err)
	}
	if ragCalls.Load() != 1 {
		t.Errorf("rag endpoint saw %d calls, want 1", ragCalls.Load())
	}
}

func TestReset(t *testing.T) {
	var ragCalls atomic.Int32
	tracker := processingFixture(t, &ragCalls)

	tracker.Reset()
	if tracker.Loaded() {
		t.Error("Loaded must be false after reset")
	}
	if len(tracker.Files()) != 0 {
		t.Error("tracked list must be empty after reset")
	}
	// With no listing loaded the tracker cannot veto, so the request
	// goes through.
	if err := tracker.TriggerProcessing(context.Background(), 1); err != nil {
		t.Fatalf("TriggerProcessing after reset failed: %v", err)
	}
}
