// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/router"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
)

// loginField indexes the focusable elements of the login form.
type loginField int

const (
	loginFieldUsername loginField = iota
	loginFieldPassword
	loginFieldSubmit
)

// Login is the login form screen.
type Login struct {
	deps Deps

	username textinput.Model
	password textinput.Model
	focus    loginField

	submitting bool
	spinner    components.Spinner
	errBox     components.ErrorBox
	err        error
	width      int
}

// NewLogin creates the login screen.
func NewLogin(deps Deps) *Login {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return &Login{
		deps:     deps,
		username: username,
		password: password,
		spinner:  components.NewSpinner(deps.Theme),
		errBox:   components.NewErrorBox(deps.Theme),
		width:    80,
	}
}

// SetWidth updates the render width.
func (l *Login) SetWidth(width int) {
	l.width = width
}

// Reset clears the form for a fresh visit.
func (l *Login) Reset() {
	l.username.SetValue("")
	l.password.SetValue("")
	l.err = nil
	l.submitting = false
	l.setFocus(loginFieldUsername)
}

// Update handles messages while the login screen is active.
func (l *Login) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if l.submitting {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			l.setFocus((l.focus + 1) % 3)
			return nil
		case "shift+tab", "up":
			l.setFocus((l.focus + 2) % 3)
			return nil
		case "enter":
			if l.focus == loginFieldSubmit || l.focus == loginFieldPassword {
				return l.submit()
			}
			l.setFocus(l.focus + 1)
			return nil
		}

	case LoginResultMsg:
		l.submitting = false
		l.spinner.Stop()
		if msg.Err != nil {
			l.err = msg.Err
			l.password.SetValue("")
			l.setFocus(loginFieldPassword)
			return nil
		}
		return func() tea.Msg { return NavigateMsg{Route: router.RouteDashboard} }
	}

	if cmd := l.spinner.Update(msg); cmd != nil {
		return cmd
	}

	var cmd tea.Cmd
	switch l.focus {
	case loginFieldUsername:
		l.username, cmd = l.username.Update(msg)
	case loginFieldPassword:
		l.password, cmd = l.password.Update(msg)
	}
	return cmd
}

// submit validates locally and fires the login command. Validation
// failures never reach the network.
func (l *Login) submit() tea.Cmd {
	if err := auth.ValidateCredentials(l.username.Value(), l.password.Value()); err != nil {
		l.err = err
		return nil
	}
	l.err = nil
	l.submitting = true
	l.spinner.SetMessage("Logging in")
	return tea.Batch(
		l.spinner.Start(),
		LoginCmd(l.deps, l.username.Value(), l.password.Value()),
	)
}

func (l *Login) setFocus(f loginField) {
	l.focus = f
	l.username.Blur()
	l.password.Blur()
	switch f {
	case loginFieldUsername:
		l.username.Focus()
	case loginFieldPassword:
		l.password.Focus()
	}
}

// View renders the login form.
func (l *Login) View() string {
	t := l.deps.Theme

	button := t.ButtonBlurred.Render("Log in")
	if l.focus == loginFieldSubmit {
		button = t.ButtonActive.Render("Log in")
	}

	form := t.FormTitle.Render("Log in to DocVault") + "\n" +
		t.FormLabel.Render("Username") + "\n" +
		l.username.View() + "\n\n" +
		t.FormLabel.Render("Password") + "\n" +
		l.password.View() + "\n\n" +
		button

	if l.spinner.Active() {
		form += "\n\n" + l.spinner.View()
	}

	out := t.FormBox.Render(form)
	if l.err != nil {
		out += "\n" + l.errBox.View(l.err, l.width)
	}
	out += "\n" + t.FormHint.Render("Esc returns to the home menu; register from there.")
	return out
}
