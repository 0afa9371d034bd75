// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// =============================================================================
// STATIC SCREENS
// =============================================================================

// homeItem is one entry of the home menu.
type homeItem struct {
	key   string
	label string
	desc  string
}

var homeItems = []homeItem{
	{"d", "Dashboard", "your role's workspace"},
	{"l", "Log in", "start a session"},
	{"r", "Register", "create an account"},
	{"c", "Contact", "how to reach the team"},
	{"q", "Quit", "leave docvault"},
}

// HomeView renders the landing screen with the navigation menu.
func HomeView(t *styles.Theme, authed bool, username string) string {
	var sb strings.Builder
	sb.WriteString(t.HeaderBrand.Render("DocVault"))
	sb.WriteString("  ")
	sb.WriteString(t.MutedText.Render("document management with retrieval-augmented chat"))
	sb.WriteString("\n\n")

	if authed && username != "" {
		sb.WriteString(t.SuccessText.Render("Logged in as " + username))
		sb.WriteString("\n\n")
	}

	for _, item := range homeItems {
		if authed && (item.key == "l" || item.key == "r") {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(t.ShortcutKey.Render(item.key))
		sb.WriteString("  ")
		sb.WriteString(t.App.Render(item.label))
		sb.WriteString("  ")
		sb.WriteString(t.MutedText.Render(item.desc))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ContactView renders the static contact screen.
func ContactView(t *styles.Theme) string {
	return t.FormTitle.Render("Contact") + "\n" +
		"Questions about DocVault or a role request?\n\n" +
		"  email    support@docvault.example.com\n" +
		"  issues   https://github.com/jeranaias/docvault-tui/issues\n\n" +
		t.MutedText.Render("Role assignments are handled by your administrator.")
}

// NotFoundView renders the unknown-route screen.
func NotFoundView(t *styles.Theme, route string) string {
	return t.ErrorTitle.Render("404") + "\n" +
		"There is no page at " + t.ShortcutKey.Render(route) + ".\n\n" +
		t.MutedText.Render("Press esc to return to the home menu.")
}

// LoadingView is shown while the profile fetch for a fresh session is
// still in flight.
func LoadingView(t *styles.Theme) string {
	return t.FormTitle.Render("Loading") + "\n" +
		"Fetching your profile...\n\n" +
		t.MutedText.Render("Your workspace opens as soon as your role is known.")
}

// NoRoleView tells an authenticated user that no role is assigned.
func NoRoleView(t *styles.Theme, username string) string {
	who := "Your account"
	if username != "" {
		who = username
	}
	return t.FormTitle.Render("No Role Assigned") + "\n" +
		who + " has no role yet, so there is no workspace to show.\n\n" +
		t.MutedText.Render("Ask an administrator to assign Admin, Editor, or Viewer.")
}
