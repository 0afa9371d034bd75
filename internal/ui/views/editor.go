// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
	"github.com/jeranaias/docvault-tui/internal/util"
)

// editorPane identifies which pane has focus.
type editorPane int

const (
	paneCandidates editorPane = iota
	paneUploaded
	paneCaption
)

// Editor is the upload-and-process workspace shown to editors.
type Editor struct {
	deps Deps

	candidates []files.Candidate
	candTable  components.Table
	fileTable  components.Table
	caption    textinput.Model
	pendingDoc string

	pane    editorPane
	spinner components.Spinner
	errBox  components.ErrorBox
	err     error
	notice  string
	loaded  bool
	width   int
}

// NewEditor creates the editor workspace.
func NewEditor(deps Deps) *Editor {
	candTable := components.NewTable(deps.Theme, []components.Column{
		{Title: "Document", Flex: true},
		{Title: "Size", Width: 10},
	})
	fileTable := components.NewTable(deps.Theme, []components.Column{
		{Title: "ID", Width: 5},
		{Title: "File", Flex: true},
		{Title: "Caption", Width: 24},
		{Title: "Status", Width: 10},
	})

	caption := textinput.New()
	caption.Placeholder = "caption for this document"
	caption.CharLimit = 200

	return &Editor{
		deps:      deps,
		candTable: candTable,
		fileTable: fileTable,
		caption:   caption,
		spinner:   components.NewSpinner(deps.Theme),
		errBox:    components.NewErrorBox(deps.Theme),
		width:     80,
	}
}

// SetWidth updates the render width.
func (e *Editor) SetWidth(width int) {
	e.width = width
	e.candTable.SetWidth(width - 4)
	e.fileTable.SetWidth(width - 4)
}

// Enter loads the document listing and candidate picker on first
// show, and arms the picker wait.
func (e *Editor) Enter() tea.Cmd {
	e.reloadCandidates()
	cmds := []tea.Cmd{WaitPickerCmd(e.deps)}
	if !e.loaded {
		e.spinner.SetMessage("Loading documents")
		cmds = append(cmds, e.spinner.Start(), RefreshFilesCmd(e.deps))
	}
	return tea.Batch(cmds...)
}

// Update handles messages while the editor workspace is active.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)

	case FilesLoadedMsg:
		e.spinner.Stop()
		if msg.Err != nil {
			e.err = msg.Err
			return nil
		}
		e.err = nil
		e.loaded = true
		e.rebuildFileRows(msg.Files)
		return nil

	case UploadDoneMsg:
		e.spinner.Stop()
		if msg.Err != nil {
			e.err = msg.Err
			return nil
		}
		e.err = nil
		e.notice = fmt.Sprintf("Uploaded %s", msg.File.FileName)
		e.rebuildFileRows(e.deps.Tracker.Files())
		return nil

	case ProcessingDoneMsg:
		e.spinner.Stop()
		if msg.Err != nil {
			e.err = msg.Err
			return nil
		}
		e.err = nil
		e.notice = fmt.Sprintf("Document %d processed", msg.FileID)
		e.rebuildFileRows(e.deps.Tracker.Files())
		return nil

	case PickerChangedMsg:
		e.reloadCandidates()
		// Re-arm the wait for the next change.
		return WaitPickerCmd(e.deps)
	}

	if e.pane == paneCaption {
		var cmd tea.Cmd
		e.caption, cmd = e.caption.Update(msg)
		if cmd != nil {
			return cmd
		}
	}
	return e.spinner.Update(msg)
}

// Capturing reports whether the caption input owns the keyboard.
func (e *Editor) Capturing() bool {
	return e.pane == paneCaption
}

func (e *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	if e.pane == paneCaption {
		switch msg.String() {
		case "enter":
			return e.submitUpload()
		case "esc":
			e.pane = paneCandidates
			e.pendingDoc = ""
			e.caption.Blur()
			return nil
		default:
			var cmd tea.Cmd
			e.caption, cmd = e.caption.Update(msg)
			return cmd
		}
	}

	switch msg.String() {
	case "tab":
		if e.pane == paneCandidates {
			e.pane = paneUploaded
		} else {
			e.pane = paneCandidates
		}
	case "up", "k":
		e.activeTable().MoveUp()
	case "down", "j":
		e.activeTable().MoveDown()
	case "r":
		e.notice = ""
		e.spinner.SetMessage("Refreshing documents")
		return tea.Batch(e.spinner.Start(), RefreshFilesCmd(e.deps))
	case "enter":
		if e.pane == paneCandidates {
			return e.startCaption()
		}
	case "p":
		if e.pane == paneUploaded {
			return e.triggerProcessing()
		}
	}
	return nil
}

func (e *Editor) activeTable() *components.Table {
	if e.pane == paneUploaded {
		return &e.fileTable
	}
	return &e.candTable
}

// startCaption begins the upload flow for the selected candidate.
func (e *Editor) startCaption() tea.Cmd {
	idx := e.candTable.Cursor()
	if idx < 0 || idx >= len(e.candidates) {
		return nil
	}
	e.pendingDoc = e.candidates[idx].Path
	e.pane = paneCaption
	e.caption.SetValue("")
	return e.caption.Focus()
}

// submitUpload validates and fires the upload.
func (e *Editor) submitUpload() tea.Cmd {
	path := e.pendingDoc
	captionText := e.caption.Value()
	if err := files.ValidateUpload(path, captionText); err != nil {
		e.err = err
		return nil
	}
	e.err = nil
	e.notice = ""
	e.pane = paneUploaded
	e.pendingDoc = ""
	e.caption.Blur()
	e.spinner.SetMessage("Uploading")
	return tea.Batch(e.spinner.Start(), UploadCmd(e.deps, path, captionText))
}

// triggerProcessing requests ingestion for the selected document. A
// document already processed or in flight is refused locally.
func (e *Editor) triggerProcessing() tea.Cmd {
	list := e.deps.Tracker.Files()
	idx := e.fileTable.Cursor()
	if idx < 0 || idx >= len(list) {
		return nil
	}
	doc := list[idx]
	if doc.Processed {
		e.notice = fmt.Sprintf("%s is already processed", doc.FileName)
		return nil
	}
	if e.deps.Tracker.InFlight(doc.ID) {
		e.notice = fmt.Sprintf("%s is already being processed", doc.FileName)
		return nil
	}
	e.notice = ""
	e.spinner.SetMessage(fmt.Sprintf("Processing %s", doc.FileName))
	return tea.Batch(e.spinner.Start(), TriggerProcessingCmd(e.deps, doc.ID))
}

func (e *Editor) reloadCandidates() {
	if e.deps.Picker == nil {
		return
	}
	e.candidates = e.deps.Picker.Candidates()
	rows := make([][]string, 0, len(e.candidates))
	for _, c := range e.candidates {
		rows = append(rows, []string{c.Name, formatSize(c.Size)})
	}
	e.candTable.SetRows(rows)
}

func (e *Editor) rebuildFileRows(list []model.UploadedFile) {
	rows := make([][]string, 0, len(list))
	for _, f := range list {
		status := f.StatusLabel()
		if e.deps.Tracker.InFlight(f.ID) {
			status = "Working"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", f.ID),
			f.FileName,
			util.TruncateWidth(f.Caption, 24),
			status,
		})
	}
	e.fileTable.SetRows(rows)
}

// View renders the editor workspace.
func (e *Editor) View() string {
	t := e.deps.Theme

	title := func(s string, active bool) string {
		if active {
			return t.NavActive.Render(s)
		}
		return t.NavItem.Render(s)
	}

	out := t.FormTitle.Render("Documents") + "\n"
	if e.deps.Picker == nil {
		// No watcher, no outbox pane; uploads go through the path
		// prompt instead.
		out += title("Outbox", e.pane == paneCandidates) + " " +
			t.MutedText.Render("directory watch disabled") + "\n"
	} else {
		out += title("Outbox", e.pane == paneCandidates) + " " +
			t.MutedText.Render(e.deps.Picker.Dir()) + "\n"
		if len(e.candidates) == 0 {
			out += t.MutedText.Render("Drop .pdf, .doc, or .docx files into the outbox to upload them.") + "\n"
		} else {
			out += e.candTable.View()
		}
	}

	out += "\n" + title("Uploaded", e.pane == paneUploaded) + "\n"
	switch {
	case !e.loaded && e.err == nil:
		out += e.spinner.View() + "\n"
	case e.fileTable.Len() == 0:
		out += t.MutedText.Render("Nothing uploaded yet.") + "\n"
	default:
		out += e.fileTable.View()
	}

	if e.pane == paneCaption {
		out += "\n" + t.FormLabel.Render("Caption") + "\n" + e.caption.View() + "\n" +
			t.FormHint.Render("enter uploads, esc cancels")
	}

	if e.spinner.Active() && e.loaded {
		out += "\n" + e.spinner.View()
	}
	if e.notice != "" {
		out += "\n" + styles.RenderSuccess(e.notice)
	}
	if e.err != nil {
		out += "\n" + e.errBox.View(e.err, e.width)
	}
	out += "\n" + t.MutedText.Render("tab switch pane  enter upload  p process  r refresh")
	return out
}

// formatSize renders a byte count in short human form.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
