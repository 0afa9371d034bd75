// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// =============================================================================
// TABLE TESTS
// =============================================================================

func TestTableCursorMovement(t *testing.T) {
	theme := styles.NewTheme("dark")
	table := NewTable(theme, []Column{{Title: "ID", Width: 6}, {Title: "Name", Flex: true}})
	table.SetRows([][]string{
		{"1", "a.pdf"},
		{"2", "b.pdf"},
		{"3", "c.pdf"},
	})

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 0, table.Cursor())

	// Cursor clamps at both ends.
	table.MoveUp()
	assert.Equal(t, 0, table.Cursor())

	table.MoveDown()
	table.MoveDown()
	table.MoveDown()
	table.MoveDown()
	assert.Equal(t, 2, table.Cursor())
}

func TestTableSetRowsClampsCursor(t *testing.T) {
	theme := styles.NewTheme("dark")
	table := NewTable(theme, []Column{{Title: "ID", Width: 6}})
	table.SetRows([][]string{{"1"}, {"2"}, {"3"}})
	table.MoveDown()
	table.MoveDown()
	require.Equal(t, 2, table.Cursor())

	// Shrinking the row set pulls the cursor back in range.
	table.SetRows([][]string{{"1"}})
	assert.Equal(t, 0, table.Cursor())

	table.SetRows(nil)
	assert.Equal(t, 0, table.Cursor())
	assert.Equal(t, 0, table.Len())
}

func TestTableViewIncludesAllCells(t *testing.T) {
	theme := styles.NewTheme("dark")
	table := NewTable(theme, []Column{{Title: "ID", Width: 6}, {Title: "Document", Flex: true}})
	table.SetWidth(60)
	table.SetRows([][]string{
		{"1", "handbook.pdf"},
		{"2"}, // short row renders with an empty cell
	})

	out := table.View()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Document")
	assert.Contains(t, out, "handbook.pdf")
	// The header style carries a bottom border, so the header renders
	// as two lines.
	assert.Equal(t, 4, strings.Count(out, "\n"), "bordered header plus two rows")
}

// =============================================================================
// ANSWER RENDERER TESTS
// =============================================================================

func TestAnswerRendererPlainMode(t *testing.T) {
	r := NewAnswerRenderer(false, 80)
	out := r.Render("**raw** answer")
	// Plain mode passes markdown through untouched.
	assert.Contains(t, out, "**raw** answer")
}

func TestAnswerRendererMarkdownMode(t *testing.T) {
	r := NewAnswerRenderer(true, 60)
	out := r.Render("# Heading\n\nBody text.")
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Body text.")
}

// =============================================================================
// ERROR BOX TESTS
// =============================================================================

func TestErrorBoxClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"validation", &auth.ValidationError{Field: "username", Message: "empty"}, "Invalid input"},
		{"auth required", api.ErrAuthRequired, "Login required"},
		{"auth failed", api.ErrAuthFailed, "Authentication failed"},
		{"forbidden", api.ErrForbidden, "Permission denied"},
		{"server", api.ErrServerError, "Server error"},
		{"unknown", errors.New("boom"), "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, _ := classify(tt.err)
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestErrorBoxView(t *testing.T) {
	theme := styles.NewTheme("dark")
	box := NewErrorBox(theme)

	assert.Empty(t, box.View(nil, 80))

	out := box.View(api.ErrForbidden, 80)
	assert.Contains(t, out, "Permission denied")
}
