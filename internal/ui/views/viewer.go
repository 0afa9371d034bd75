// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
)

// Viewer is the chat workspace shown to viewers: ask questions
// against the processed documents and read the answers.
type Viewer struct {
	deps Deps

	transcript *model.Transcript
	renderer   *components.AnswerRenderer
	viewport   viewport.Model
	input      textinput.Model

	spinner  components.Spinner
	errBox   components.ErrorBox
	err      error
	loaded   bool
	width    int
	height   int
}

// NewViewer creates the chat workspace.
func NewViewer(deps Deps) *Viewer {
	input := textinput.New()
	input.Placeholder = "ask about your documents"
	input.CharLimit = 500
	input.Focus()

	vp := viewport.New(80, 16)

	return &Viewer{
		deps:       deps,
		transcript: model.NewTranscript(),
		renderer:   components.NewAnswerRenderer(deps.Cfg.UI.Markdown, 78),
		viewport:   vp,
		input:      input,
		spinner:    components.NewSpinner(deps.Theme),
		errBox:     components.NewErrorBox(deps.Theme),
		width:      80,
		height:     24,
	}
}

// SetSize updates the render dimensions.
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width - 2
	v.viewport.Height = height - 8
	if v.viewport.Height < 4 {
		v.viewport.Height = 4
	}
	v.renderer = components.NewAnswerRenderer(v.deps.Cfg.UI.Markdown, width-4)
	v.refreshViewport()
}

// Enter loads the stored chat history on first show. The profile is
// already cached by the time a workspace is visible.
func (v *Viewer) Enter() tea.Cmd {
	if v.loaded {
		return nil
	}
	profile := v.deps.Auth.Profile()
	if profile == nil {
		return nil
	}
	v.spinner.SetMessage("Loading chat history")
	return tea.Batch(v.spinner.Start(), LoadHistoryCmd(v.deps, profile.ID))
}

// Update handles messages while the chat workspace is active.
func (v *Viewer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return v.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd

	case HistoryLoadedMsg:
		v.spinner.Stop()
		v.loaded = true
		if msg.Err != nil {
			// Missing history is not fatal; the chat still works.
			v.err = msg.Err
			return nil
		}
		v.err = nil
		v.transcript.ReplaceFromHistory(msg.History)
		v.refreshViewport()
		v.viewport.GotoBottom()
		return nil

	case AnswerMsg:
		if v.transcript.PendingCount() <= 1 {
			v.spinner.Stop()
		}
		if msg.Err != nil {
			v.transcript.Fail(msg.EntryID, msg.Err)
		} else {
			v.transcript.Resolve(msg.EntryID, msg.Answer)
		}
		v.refreshViewport()
		v.viewport.GotoBottom()
		return nil
	}

	return v.spinner.Update(msg)
}

// submit appends a pending entry and fires the query.
func (v *Viewer) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return nil
	}
	profile := v.deps.Auth.Profile()
	if profile == nil {
		return nil
	}

	entryID := v.transcript.Append(question)
	v.input.SetValue("")
	v.err = nil
	v.refreshViewport()
	v.viewport.GotoBottom()
	v.spinner.SetMessage("Thinking")
	return tea.Batch(v.spinner.Start(), AskCmd(v.deps, profile.ID, entryID, question))
}

// refreshViewport rebuilds the rendered transcript.
func (v *Viewer) refreshViewport() {
	t := v.deps.Theme
	var sb strings.Builder
	for _, entry := range v.transcript.Entries() {
		sb.WriteString(t.QuestionLine.Render("You: " + entry.Question))
		sb.WriteString("\n")
		switch entry.State {
		case model.AnswerPending:
			sb.WriteString(t.PendingLine.Render("waiting for an answer..."))
		case model.AnswerResolved:
			sb.WriteString(t.AnswerBlock.Render(v.renderer.Render(entry.Answer)))
		case model.AnswerFailed:
			sb.WriteString(t.FailedLine.Render("failed: " + entry.Err.Error()))
			sb.WriteString("\n")
			sb.WriteString(t.MutedText.Render("  ask again to retry"))
		}
		sb.WriteString("\n\n")
	}
	v.viewport.SetContent(sb.String())
}

// View renders the chat workspace.
func (v *Viewer) View() string {
	t := v.deps.Theme

	out := t.FormTitle.Render("Document Chat") + "\n"
	if v.transcript.Len() == 0 {
		if v.spinner.Active() && !v.loaded {
			out += v.spinner.View() + "\n"
		} else {
			out += t.MutedText.Render("Ask your first question about the processed documents.") + "\n"
		}
	} else {
		out += v.viewport.View() + "\n"
	}

	if v.spinner.Active() && v.loaded {
		out += v.spinner.View() + "\n"
	}
	if v.err != nil {
		out += v.errBox.View(v.err, v.width) + "\n"
	}
	out += v.input.View() + "\n"
	out += t.MutedText.Render("enter ask  pgup/pgdn scroll")
	return out
}
