// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND NAVIGATION STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderBrand lipgloss.Style
	NavItem     lipgloss.Style
	NavActive   lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox       lipgloss.Style
	FormTitle     lipgloss.Style
	FormLabel     lipgloss.Style
	FormHint      lipgloss.Style
	FormError     lipgloss.Style
	ButtonActive  lipgloss.Style
	ButtonBlurred lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style
	TableSelected lipgloss.Style
	TableBorder   lipgloss.Style

	// ==========================================================================
	// ROLE BADGE STYLES
	// ==========================================================================

	BadgeAdmin  lipgloss.Style
	BadgeEditor lipgloss.Style
	BadgeViewer lipgloss.Style
	BadgeNoRole lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	QuestionLine lipgloss.Style
	AnswerBlock  lipgloss.Style
	PendingLine  lipgloss.Style
	FailedLine   lipgloss.Style

	// ==========================================================================
	// STATUS BAR AND FEEDBACK STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	SuccessText  lipgloss.Style
	MutedText    lipgloss.Style
}

// NewTheme creates a theme calibrated to the current terminal.
// The mode argument comes from ui.theme config: "dark", "light", or
// "auto" (detect).
func NewTheme(mode string) *Theme {
	output := termenv.DefaultOutput()

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = output.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: output.Profile == termenv.TrueColor,
		ColorProfile: output.Profile,
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

// initStyles builds every style from the palette.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Container = lipgloss.NewStyle().
		Padding(1, 2)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.NavItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.NavActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	t.FormBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.FormTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true).
		Padding(0, 2)

	t.ButtonBlurred = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Overlay).
		Padding(0, 2)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.TableBorder = lipgloss.NewStyle().
		Foreground(Overlay)

	t.BadgeAdmin = lipgloss.NewStyle().
		Foreground(AdminBadgeFg).
		Background(AdminBadgeBg).
		Padding(0, 1)

	t.BadgeEditor = lipgloss.NewStyle().
		Foreground(EditorBadgeFg).
		Background(EditorBadgeBg).
		Padding(0, 1)

	t.BadgeViewer = lipgloss.NewStyle().
		Foreground(ViewerBadgeFg).
		Background(ViewerBadgeBg).
		Padding(0, 1)

	t.BadgeNoRole = lipgloss.NewStyle().
		Foreground(NoRoleBadgeFg).
		Background(NoRoleBadgeBg).
		Padding(0, 1)

	t.QuestionLine = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AnswerBlock = lipgloss.NewStyle().
		Foreground(TextPrimary).
		MarginLeft(2)

	t.PendingLine = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		MarginLeft(2)

	t.FailedLine = lipgloss.NewStyle().
		Foreground(Rose).
		MarginLeft(2)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.SuccessText = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.MutedText = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// RoleBadge returns the badge style for a role display name.
func (t *Theme) RoleBadge(roleName string) lipgloss.Style {
	switch roleName {
	case "Admin":
		return t.BadgeAdmin
	case "Editor":
		return t.BadgeEditor
	case "Viewer":
		return t.BadgeViewer
	default:
		return t.BadgeNoRole
	}
}

// SetSize updates the layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode describes how much horizontal room the terminal offers.
type LayoutMode int

const (
	// LayoutNarrow is under 80 columns: tables collapse columns.
	LayoutNarrow LayoutMode = iota
	// LayoutNormal is 80-119 columns.
	LayoutNormal
	// LayoutWide is 120 columns or more.
	LayoutWide
)

// GetLayoutMode returns the layout mode for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 80:
		return LayoutNarrow
	case t.Width < 120:
		return LayoutNormal
	default:
		return LayoutWide
	}
}
