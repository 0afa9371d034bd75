// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the docvault TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component accepts a
*styles.Theme so every screen renders with the same design language.

# Components

Spinner (spinner.go) - Animated activity indicator with elapsed-time display.
StatusBar (statusbar.go) - Bottom bar with identity, session expiry, and shortcuts.
Table (table.go) - Fixed/flex column table with cursor selection.
ErrorBox (errorbox.go) - Failure display that classifies errors into titled hints.
AnswerRenderer (markdown.go) - Markdown and code rendering for chat answers.

# Theme Integration

	theme := styles.NewTheme("auto")
	bar := components.NewStatusBar(theme)
	bar.SetIdentity("alice", "Editor")
	view := bar.View(80)

# Bubble Tea Integration

Interactive components follow the usual Update/View split and return
tea.Cmd values from Update; static ones only expose View.
*/
package components
