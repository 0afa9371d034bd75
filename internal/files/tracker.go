// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package files tracks uploaded documents and their retrieval
// processing state, and watches the local pick-up directory for
// upload candidates.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/storage"
)

var (
	// ErrProcessingInFlight indicates a processing request for the file
	// is already running.
	ErrProcessingInFlight = errors.New("processing already in progress")

	// ErrAlreadyProcessed indicates the file has already been ingested.
	ErrAlreadyProcessed = errors.New("file already processed")

	// ErrUnknownFile indicates the file ID is not in the tracked list.
	ErrUnknownFile = errors.New("unknown file")
)

// UploadError reports a rejected or failed upload.
type UploadError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s", filepath.Base(e.Path), e.Message)
}

// Is makes all UploadErrors match each other for errors.Is.
func (e *UploadError) Is(target error) bool {
	_, ok := target.(*UploadError)
	return ok
}

// =============================================================================
// FILE TRACKER
// =============================================================================

// Tracker holds the uploaded-file list and the per-file processing
// state. The backend owns the truth; the tracker's job is to keep the
// client honest about what it has already asked for, so a slow reply
// never turns into a duplicate processing request.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	client   *api.Client
	journal  *storage.Journal
	files    []model.UploadedFile
	inflight map[int]bool
	limiter  *rate.Limiter
	loaded   bool
}

// NewTracker creates a tracker. The journal may be nil. Refreshes are
// throttled to one per two seconds with a small burst, so leaning on
// the refresh key cannot hammer the backend.
func NewTracker(client *api.Client, journal *storage.Journal) *Tracker {
	return &Tracker{
		client:   client,
		journal:  journal,
		inflight: make(map[int]bool),
		limiter:  rate.NewLimiter(rate.Limit(0.5), 2),
	}
}

// Files returns a snapshot of the tracked file list.
func (t *Tracker) Files() []model.UploadedFile {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.UploadedFile, len(t.files))
	copy(out, t.files)
	return out
}

// Loaded reports whether at least one listing has been fetched.
func (t *Tracker) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// File returns the tracked file with the given ID.
func (t *Tracker) File(id int) (model.UploadedFile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.files {
		if f.ID == id {
			return f, true
		}
	}
	return model.UploadedFile{}, false
}

// Refresh fetches the uploaded-file listing and replaces the tracked
// list wholesale. When the throttle window is exhausted the cached
// list is returned unchanged.
func (t *Tracker) Refresh(ctx context.Context) ([]model.UploadedFile, error) {
	// The listing endpoint needs a session; fail locally instead of
	// burning a request that can only come back 401.
	if !t.client.Authenticated() {
		return nil, api.ErrAuthRequired
	}

	t.mu.Lock()
	allowed := t.limiter.Allow()
	if !allowed && t.loaded {
		out := make([]model.UploadedFile, len(t.files))
		copy(out, t.files)
		t.mu.Unlock()
		return out, nil
	}
	t.mu.Unlock()

	files, err := t.client.UploadedFiles(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.files = files
	t.loaded = true
	// The listing is authoritative: anything it reports processed is
	// no longer in flight.
	for id := range t.inflight {
		for _, f := range files {
			if f.ID == id && f.Processed {
				delete(t.inflight, id)
			}
		}
	}
	out := make([]model.UploadedFile, len(files))
	copy(out, files)
	return out, nil
}

// ValidateUpload checks a candidate document without touching the
// network or the disk beyond a stat.
func ValidateUpload(path, caption string) error {
	if strings.TrimSpace(path) == "" {
		return &UploadError{Path: path, Message: "no document selected"}
	}
	if _, ok := model.DocumentMIME(path); !ok {
		return &UploadError{
			Path: path,
			Message: fmt.Sprintf("unsupported document type %q, accepted: %s",
				filepath.Ext(path), strings.Join(model.AcceptedExtensions(), ", ")),
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &UploadError{Path: path, Message: "document not readable"}
	}
	if info.IsDir() {
		return &UploadError{Path: path, Message: "is a directory"}
	}
	if strings.TrimSpace(caption) == "" {
		return &UploadError{Path: path, Message: "caption must not be empty"}
	}
	return nil
}

// Upload validates and posts a document. The type whitelist is
// enforced here, before any bytes leave the machine. On success the
// returned record is appended to the tracked list.
func (t *Tracker) Upload(ctx context.Context, path, caption string) (model.UploadedFile, error) {
	if err := ValidateUpload(path, caption); err != nil {
		return model.UploadedFile{}, err
	}

	uploaded, err := t.client.UploadDocument(ctx, path, caption)
	t.record(ctx, storage.EventUpload, filepath.Base(path), err == nil)
	if err != nil {
		return model.UploadedFile{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		t.files = append(t.files, uploaded)
	}
	return uploaded, nil
}

// TriggerProcessing asks the backend to ingest a file into the
// retrieval index. The call is idempotent from the client's side: a
// file already processed or already in flight is not re-requested.
func (t *Tracker) TriggerProcessing(ctx context.Context, fileID int) error {
	t.mu.Lock()
	if t.loaded {
		found := false
		for _, f := range t.files {
			if f.ID != fileID {
				continue
			}
			found = true
			if f.Processed {
				t.mu.Unlock()
				return ErrAlreadyProcessed
			}
		}
		if !found {
			t.mu.Unlock()
			return ErrUnknownFile
		}
	}
	if t.inflight[fileID] {
		t.mu.Unlock()
		return ErrProcessingInFlight
	}
	t.inflight[fileID] = true
	t.mu.Unlock()

	err := t.client.PerformRAG(ctx, fileID)
	t.record(ctx, storage.EventRAGTrigger, fmt.Sprintf("file=%d", fileID), err == nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, fileID)
	if err != nil {
		return err
	}
	for i := range t.files {
		if t.files[i].ID == fileID {
			t.files[i].Processed = true
		}
	}
	return nil
}

// InFlight reports whether a processing request is running for the
// file.
func (t *Tracker) InFlight(fileID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight[fileID]
}

// Reset drops all tracked state. Called on logout so the next session
// starts from a clean listing.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files = nil
	t.inflight = make(map[int]bool)
	t.loaded = false
}

func (t *Tracker) record(ctx context.Context, event, detail string, ok bool) {
	if t.journal == nil {
		return
	}
	_ = t.journal.Record(ctx, event, detail, ok)
}
