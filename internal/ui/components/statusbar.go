// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docvault-tui/internal/ui/styles"
	"github.com/jeranaias/docvault-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: identity on the left, session
// expiry in the middle, key hints on the right.
type StatusBar struct {
	theme *styles.Theme

	username  string
	roleName  string
	expiresAt time.Time
	shortcuts []Shortcut
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetIdentity sets the logged-in user shown on the left. Empty
// username means logged out.
func (b *StatusBar) SetIdentity(username, roleName string) {
	b.username = username
	b.roleName = roleName
}

// SetExpiry sets the access token expiry time. Zero clears it.
func (b *StatusBar) SetExpiry(expiresAt time.Time) {
	b.expiresAt = expiresAt
}

// SetShortcuts replaces the key hints.
func (b *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	b.shortcuts = shortcuts
}

// View renders the bar for the given width.
func (b *StatusBar) View(width int) string {
	left := "not logged in"
	if b.username != "" {
		left = b.username
		if b.roleName != "" {
			left += " " + b.theme.RoleBadge(b.roleName).Render(b.roleName)
		}
	}

	mid := ""
	if !b.expiresAt.IsZero() {
		remaining := time.Until(b.expiresAt).Round(time.Minute)
		if remaining <= 0 {
			mid = b.theme.FormError.Render("session expired")
		} else {
			mid = b.theme.MutedText.Render("expires in " + remaining.String())
		}
	}

	var hints []string
	for _, sc := range b.shortcuts {
		hints = append(hints,
			b.theme.ShortcutKey.Render(sc.Key)+" "+b.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap1 := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right) - 4
	if gap1 < 1 {
		// Narrow terminal: drop the hints first, then the expiry.
		right = ""
		gap1 = width - lipgloss.Width(left) - lipgloss.Width(mid) - 4
		if gap1 < 1 {
			mid = ""
			gap1 = 1
		}
	}
	half := gap1 / 2
	line := left + strings.Repeat(" ", half) + mid + strings.Repeat(" ", gap1-half) + right

	return b.theme.StatusBar.Width(width).Render(util.TruncateWidth(line, width-2))
}
