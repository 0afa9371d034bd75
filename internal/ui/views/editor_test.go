// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

func TestEditorViewWithoutWatcher(t *testing.T) {
	// The watcher is optional; a disabled or failed watch leaves
	// Picker nil and the workspace must still render.
	e := NewEditor(Deps{Theme: styles.NewTheme("dark")})
	out := e.View()
	if !strings.Contains(out, "directory watch disabled") {
		t.Errorf("render without watcher missing the disabled notice:\n%s", out)
	}
	if !strings.Contains(out, "Documents") {
		t.Errorf("render without watcher lost the workspace:\n%s", out)
	}
}

func TestEditorViewShowsOutboxDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	pw, err := files.NewPickerWatcher(dir)
	if err != nil {
		t.Fatalf("NewPickerWatcher failed: %v", err)
	}
	defer pw.Close()

	e := NewEditor(Deps{Theme: styles.NewTheme("dark"), Picker: pw})
	if out := e.View(); !strings.Contains(out, "outbox") {
		t.Errorf("outbox directory missing from render:\n%s", out)
	}
}
