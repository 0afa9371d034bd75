// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/router"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

// registerField indexes the focusable elements of the register form.
type registerField int

const (
	regFieldUsername registerField = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldSubmit
)

// Register is the account registration screen.
type Register struct {
	deps Deps

	username textinput.Model
	email    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    registerField

	submitting bool
	created    bool
	spinner    components.Spinner
	errBox     components.ErrorBox
	err        error
	width      int
}

// NewRegister creates the registration screen.
func NewRegister(deps Deps) *Register {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password (8+ characters)"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Placeholder = "repeat password"
	confirm.CharLimit = 128
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	return &Register{
		deps:     deps,
		username: username,
		email:    email,
		password: password,
		confirm:  confirm,
		spinner:  components.NewSpinner(deps.Theme),
		errBox:   components.NewErrorBox(deps.Theme),
		width:    80,
	}
}

// SetWidth updates the render width.
func (r *Register) SetWidth(width int) {
	r.width = width
}

// Reset clears the form for a fresh visit.
func (r *Register) Reset() {
	r.username.SetValue("")
	r.email.SetValue("")
	r.password.SetValue("")
	r.confirm.SetValue("")
	r.err = nil
	r.created = false
	r.submitting = false
	r.setFocus(regFieldUsername)
}

// Update handles messages while the registration screen is active.
func (r *Register) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if r.submitting {
			return nil
		}
		if r.created && msg.String() == "enter" {
			return func() tea.Msg { return NavigateMsg{Route: router.RouteLogin} }
		}
		switch msg.String() {
		case "tab", "down":
			r.setFocus((r.focus + 1) % 5)
			return nil
		case "shift+tab", "up":
			r.setFocus((r.focus + 4) % 5)
			return nil
		case "enter":
			if r.focus == regFieldSubmit || r.focus == regFieldConfirm {
				return r.submit()
			}
			r.setFocus(r.focus + 1)
			return nil
		}

	case RegisterResultMsg:
		r.submitting = false
		r.spinner.Stop()
		if msg.Err != nil {
			r.err = msg.Err
			return nil
		}
		// Account created; the user logs in with the new credentials.
		r.created = true
		return nil
	}

	if cmd := r.spinner.Update(msg); cmd != nil {
		return cmd
	}

	var cmd tea.Cmd
	switch r.focus {
	case regFieldUsername:
		r.username, cmd = r.username.Update(msg)
	case regFieldEmail:
		r.email, cmd = r.email.Update(msg)
	case regFieldPassword:
		r.password, cmd = r.password.Update(msg)
	case regFieldConfirm:
		r.confirm, cmd = r.confirm.Update(msg)
	}
	return cmd
}

func (r *Register) submit() tea.Cmd {
	if err := auth.ValidateRegistration(r.username.Value(), r.email.Value(), r.password.Value(), r.confirm.Value()); err != nil {
		r.err = err
		return nil
	}
	r.err = nil
	r.submitting = true
	r.spinner.SetMessage("Creating account")
	return tea.Batch(
		r.spinner.Start(),
		RegisterCmd(r.deps, r.username.Value(), r.email.Value(), r.password.Value(), r.confirm.Value()),
	)
}

func (r *Register) setFocus(f registerField) {
	r.focus = f
	r.username.Blur()
	r.email.Blur()
	r.password.Blur()
	r.confirm.Blur()
	switch f {
	case regFieldUsername:
		r.username.Focus()
	case regFieldEmail:
		r.email.Focus()
	case regFieldPassword:
		r.password.Focus()
	case regFieldConfirm:
		r.confirm.Focus()
	}
}

// View renders the registration form.
func (r *Register) View() string {
	t := r.deps.Theme

	if r.created {
		return t.FormBox.Render(
			styles.RenderSuccess("Account created") + "\n\n" +
				t.FormHint.Render("Press enter to continue to login."))
	}

	button := t.ButtonBlurred.Render("Create account")
	if r.focus == regFieldSubmit {
		button = t.ButtonActive.Render("Create account")
	}

	form := t.FormTitle.Render("Create a DocVault account") + "\n" +
		t.FormLabel.Render("Username") + "\n" +
		r.username.View() + "\n\n" +
		t.FormLabel.Render("Email") + "\n" +
		r.email.View() + "\n\n" +
		t.FormLabel.Render("Password") + "\n" +
		r.password.View() + "\n\n" +
		t.FormLabel.Render("Confirm password") + "\n" +
		r.confirm.View() + "\n\n" +
		button

	if r.spinner.Active() {
		form += "\n\n" + r.spinner.View()
	}

	out := t.FormBox.Render(form)
	if r.err != nil {
		out += "\n" + r.errBox.View(r.err, r.width)
	}
	return out
}
