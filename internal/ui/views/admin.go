// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// Admin is the user-management workspace shown to administrators.
type Admin struct {
	deps Deps

	users   []model.UserProfile
	table   components.Table
	spinner components.Spinner
	errBox  components.ErrorBox
	err     error
	notice  string
	loaded  bool
	width   int
}

// NewAdmin creates the admin workspace.
func NewAdmin(deps Deps) *Admin {
	table := components.NewTable(deps.Theme, []components.Column{
		{Title: "ID", Width: 5},
		{Title: "Username", Width: 20},
		{Title: "Email", Flex: true},
		{Title: "Role", Width: 18},
	})
	return &Admin{
		deps:    deps,
		table:   table,
		spinner: components.NewSpinner(deps.Theme),
		errBox:  components.NewErrorBox(deps.Theme),
		width:   80,
	}
}

// SetWidth updates the render width.
func (a *Admin) SetWidth(width int) {
	a.width = width
	a.table.SetWidth(width - 4)
}

// Enter is called when the workspace becomes visible. It loads the
// account listing on first show.
func (a *Admin) Enter() tea.Cmd {
	if a.loaded {
		return nil
	}
	a.spinner.SetMessage("Loading users")
	return tea.Batch(a.spinner.Start(), LoadUsersCmd(a.deps))
}

// Update handles messages while the admin workspace is active.
func (a *Admin) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			a.table.MoveUp()
		case "down", "j":
			a.table.MoveDown()
		case "r":
			a.notice = ""
			a.spinner.SetMessage("Reloading users")
			return tea.Batch(a.spinner.Start(), LoadUsersCmd(a.deps))
		case "1", "2", "3":
			return a.assignRole(model.RoleFromID(int(msg.Runes[0] - '0')))
		}
		return nil

	case UsersLoadedMsg:
		a.spinner.Stop()
		if msg.Err != nil {
			a.err = msg.Err
			return nil
		}
		a.err = nil
		a.loaded = true
		a.users = msg.Users
		a.rebuildRows()
		return nil

	case RoleUpdatedMsg:
		a.spinner.Stop()
		if msg.Err != nil {
			a.err = msg.Err
			return nil
		}
		a.err = nil
		for i := range a.users {
			if a.users[i].ID == msg.User.ID {
				a.users[i] = msg.User
			}
		}
		a.rebuildRows()
		a.notice = fmt.Sprintf("%s is now %s", msg.User.Username, msg.User.Role().DisplayName())
		return nil
	}

	return a.spinner.Update(msg)
}

// assignRole changes the selected user's role.
func (a *Admin) assignRole(role model.Role) tea.Cmd {
	if !role.Valid() {
		return nil
	}
	idx := a.table.Cursor()
	if idx < 0 || idx >= len(a.users) {
		return nil
	}
	target := a.users[idx]
	if target.Role() == role {
		a.notice = fmt.Sprintf("%s is already %s", target.Username, role.DisplayName())
		return nil
	}
	a.notice = ""
	a.spinner.SetMessage(fmt.Sprintf("Setting %s to %s", target.Username, role.DisplayName()))
	return tea.Batch(a.spinner.Start(), UpdateRoleCmd(a.deps, target.ID, role))
}

func (a *Admin) rebuildRows() {
	rows := make([][]string, 0, len(a.users))
	for _, u := range a.users {
		rows = append(rows, []string{
			fmt.Sprintf("%d", u.ID),
			u.Username,
			u.Email,
			u.Role().DisplayName(),
		})
	}
	a.table.SetRows(rows)
}

// View renders the admin workspace.
func (a *Admin) View() string {
	t := a.deps.Theme

	out := t.FormTitle.Render("Users") + "\n"
	switch {
	case !a.loaded && a.err == nil:
		out += a.spinner.View()
	case len(a.users) == 0:
		out += t.MutedText.Render("No accounts found.")
	default:
		out += a.table.View()
	}

	if a.spinner.Active() && a.loaded {
		out += "\n" + a.spinner.View()
	}
	if a.notice != "" {
		out += "\n" + styles.RenderSuccess(a.notice)
	}
	if a.err != nil {
		out += "\n" + a.errBox.View(a.err, a.width)
	}
	out += "\n" + t.MutedText.Render("1 admin  2 editor  3 viewer  r reload")
	return out
}
