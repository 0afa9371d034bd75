// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/docvault-tui/internal/model"
)

// Candidate is a local document eligible for upload.
type Candidate struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// =============================================================================
// PICKER WATCHER
// =============================================================================

// PickerWatcher keeps a live listing of uploadable documents in a
// local directory. Only files matching the accepted document types
// are listed. Changes are debounced and published on a notification
// channel the UI can poll as a Bubble Tea command.
type PickerWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu         sync.Mutex
	candidates map[string]Candidate
	dirty      bool

	changed chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPickerWatcher creates a watcher over dir. The directory is
// created if missing so first-run users have somewhere to drop
// documents.
func NewPickerWatcher(dir string) (*PickerWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	pw := &PickerWatcher{
		dir:        dir,
		watcher:    w,
		debounce:   200 * time.Millisecond,
		candidates: make(map[string]Candidate),
		changed:    make(chan struct{}, 1),
		ctx:        ctx,
		cancel:     cancel,
	}
	return pw, nil
}

// Dir returns the watched directory.
func (pw *PickerWatcher) Dir() string {
	return pw.dir
}

// Watch scans the directory and starts watching for changes.
func (pw *PickerWatcher) Watch() error {
	if err := pw.scan(); err != nil {
		return err
	}
	if err := pw.watcher.Add(pw.dir); err != nil {
		return err
	}
	go pw.processEvents()
	return nil
}

// Changed returns a channel that receives a signal when the candidate
// listing has changed. The channel has a buffer of one; signals
// coalesce.
func (pw *PickerWatcher) Changed() <-chan struct{} {
	return pw.changed
}

// Candidates returns the current listing sorted by name.
func (pw *PickerWatcher) Candidates() []Candidate {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	out := make([]Candidate, 0, len(pw.candidates))
	for _, c := range pw.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// scan rebuilds the candidate listing from a directory read.
func (pw *PickerWatcher) scan() error {
	entries, err := os.ReadDir(pw.dir)
	if err != nil {
		return err
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.candidates = make(map[string]Candidate)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(pw.dir, entry.Name())
		if _, ok := model.DocumentMIME(path); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		pw.candidates[path] = Candidate{
			Path:    path,
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
	}
	return nil
}

// processEvents applies filesystem events to the listing.
func (pw *PickerWatcher) processEvents() {
	var timer *time.Timer
	for {
		select {
		case <-pw.ctx.Done():
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if _, accepted := model.DocumentMIME(event.Name); !accepted {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pw.updateCandidate(event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pw.removeCandidate(event.Name)
			default:
				continue
			}
			// Debounce bursts of events into one notification.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(pw.debounce, pw.notify)

		case _, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (pw *PickerWatcher) updateCandidate(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	pw.mu.Lock()
	pw.candidates[path] = Candidate{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	pw.mu.Unlock()
}

func (pw *PickerWatcher) removeCandidate(path string) {
	pw.mu.Lock()
	delete(pw.candidates, path)
	pw.mu.Unlock()
}

func (pw *PickerWatcher) notify() {
	select {
	case pw.changed <- struct{}{}:
	default:
	}
}

// Close stops watching and releases resources.
func (pw *PickerWatcher) Close() error {
	pw.cancel()
	return pw.watcher.Close()
}
