// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/docvault-tui/internal/ui/styles"
	"github.com/jeranaias/docvault-tui/internal/util"
)

// =============================================================================
// TABLE
// =============================================================================

// Column describes a table column. Width is in display cells; a Flex
// column absorbs the leftover width.
type Column struct {
	Title string
	Width int
	Flex  bool
}

// Table renders rows of cells with a cursor for selection. It holds
// no data semantics: callers rebuild rows from their own state.
type Table struct {
	theme   *styles.Theme
	columns []Column
	rows    [][]string
	cursor  int
	width   int
}

// NewTable creates a table with the given columns.
func NewTable(theme *styles.Theme, columns []Column) Table {
	return Table{
		theme:   theme,
		columns: columns,
		width:   80,
	}
}

// SetRows replaces the table rows, clamping the cursor.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// SetWidth sets the render width.
func (t *Table) SetWidth(width int) {
	t.width = width
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Cursor returns the selected row index.
func (t *Table) Cursor() int {
	return t.cursor
}

// MoveUp moves the cursor up one row.
func (t *Table) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (t *Table) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
}

// colWidths resolves column widths for the current render width.
func (t *Table) colWidths() []int {
	widths := make([]int, len(t.columns))
	used := 0
	flexAt := -1
	for i, c := range t.columns {
		widths[i] = c.Width
		if c.Flex {
			flexAt = i
			continue
		}
		used += c.Width + 2
	}
	if flexAt >= 0 {
		remaining := t.width - used - 2
		if remaining < 8 {
			remaining = 8
		}
		widths[flexAt] = remaining
	}
	return widths
}

// View renders the table.
func (t *Table) View() string {
	widths := t.colWidths()

	var sb strings.Builder
	var header []string
	for i, c := range t.columns {
		header = append(header, util.PadWidth(c.Title, widths[i]))
	}
	sb.WriteString(t.theme.TableHeader.Render(strings.Join(header, "  ")))
	sb.WriteString("\n")

	for ri, row := range t.rows {
		var cells []string
		for ci := range t.columns {
			cell := ""
			if ci < len(row) {
				cell = row[ci]
			}
			cells = append(cells, util.PadWidth(cell, widths[ci]))
		}
		line := strings.Join(cells, "  ")
		if ri == t.cursor {
			sb.WriteString(t.theme.TableSelected.Render(line))
		} else {
			sb.WriteString(t.theme.TableRow.Render(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
