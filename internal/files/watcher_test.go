// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPickerWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "zebra.pdf")
	writeDoc(t, dir, "alpha.docx")
	writeDoc(t, dir, "ignored.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	pw, err := NewPickerWatcher(dir)
	if err != nil {
		t.Fatalf("NewPickerWatcher failed: %v", err)
	}
	defer pw.Close()
	if err := pw.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	got := pw.Candidates()
	if len(got) != 2 {
		t.Fatalf("candidates = %+v, want 2 documents", got)
	}
	// Sorted by name, non-documents and directories skipped.
	if got[0].Name != "alpha.docx" || got[1].Name != "zebra.pdf" {
		t.Errorf("order = [%s, %s]", got[0].Name, got[1].Name)
	}
	if got[0].Size == 0 {
		t.Error("candidate size missing")
	}
}

func TestPickerWatcherCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")

	pw, err := NewPickerWatcher(dir)
	if err != nil {
		t.Fatalf("NewPickerWatcher failed: %v", err)
	}
	defer pw.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("watched directory was not created: %v", err)
	}
	if pw.Dir() != dir {
		t.Errorf("Dir = %q", pw.Dir())
	}
}

func TestPickerWatcherSeesNewDocument(t *testing.T) {
	dir := t.TempDir()
	pw, err := NewPickerWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer pw.Close()
	if err := pw.Watch(); err != nil {
		t.Fatal(err)
	}

	writeDoc(t, dir, "handbook.pdf")

	select {
	case <-pw.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	got := pw.Candidates()
	if len(got) != 1 || got[0].Name != "handbook.pdf" {
		t.Errorf("candidates = %+v", got)
	}
}

func TestPickerWatcherDropsRemovedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "handbook.pdf")

	pw, err := NewPickerWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer pw.Close()
	if err := pw.Watch(); err != nil {
		t.Fatal(err)
	}
	if len(pw.Candidates()) != 1 {
		t.Fatal("initial scan missed the document")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case <-pw.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	if got := pw.Candidates(); len(got) != 0 {
		t.Errorf("candidates = %+v, want empty", got)
	}
}
