// docvault TUI - A terminal client for document management and question answering.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/cli"
	"github.com/jeranaias/docvault-tui/internal/config"
	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/router"
	"github.com/jeranaias/docvault-tui/internal/storage"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
	"github.com/jeranaias/docvault-tui/internal/ui/views"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse()

	// Route to appropriate handler
	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		cli.Exit(cli.HandleLogin(args))
	case cli.CmdLogout:
		cli.Exit(cli.HandleLogout(args))
	case cli.CmdRegister:
		cli.Exit(cli.HandleRegister(args))
	case cli.CmdWhoami:
		cli.Exit(cli.HandleWhoami(args))
	case cli.CmdAsk:
		cli.Exit(cli.HandleAsk(args))
	case cli.CmdChat:
		cli.Exit(cli.HandleChat(args))
	case cli.CmdFiles:
		cli.Exit(cli.HandleFiles(args))
	case cli.CmdUsers:
		cli.Exit(cli.HandleUsers(args))
	case cli.CmdStatus:
		cli.Exit(cli.HandleStatus(args))
	case cli.CmdConfig:
		cli.Exit(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}

	store, err := storage.NewTokenStore(configDir)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptTokens) {
			fmt.Fprintf(os.Stderr, "Error opening session storage: %v\n", err)
			os.Exit(cli.ExitGeneralError)
		}
		fmt.Fprintln(os.Stderr, "Warning: stored session was unreadable and has been discarded")
	}

	client := api.NewClient(cfg.Server.BaseURL, store).WithMaxRetries(cfg.Server.MaxRetries)

	// The activity journal is best-effort; the client works without it
	var journal *storage.Journal
	if cfg.Journal.Enabled {
		if path, perr := cfg.JournalPath(); perr == nil {
			journal, _ = storage.OpenJournal(path)
		}
	}
	defer func() {
		if journal != nil {
			journal.Close()
		}
	}()

	controller := auth.NewController(client, store, journal)
	tracker := files.NewTracker(client, journal)

	// Watch the upload pick-up directory when enabled. A watcher
	// failure degrades to manual path entry rather than aborting.
	var picker *files.PickerWatcher
	if cfg.Uploads.Watch {
		if dir, derr := cfg.UploadsDir(); derr == nil {
			pw, werr := files.NewPickerWatcher(dir)
			if werr == nil {
				if werr = pw.Watch(); werr == nil {
					picker = pw
				} else {
					pw.Close()
				}
			}
			if werr != nil && args.Verbose {
				fmt.Fprintf(os.Stderr, "Warning: upload directory watch disabled: %v\n", werr)
			}
		}
	}
	defer func() {
		if picker != nil {
			picker.Close()
		}
	}()

	theme := styles.NewTheme(cfg.UI.Theme)

	deps := views.Deps{
		Cfg:     cfg,
		Theme:   theme,
		Auth:    controller,
		API:     client,
		Tracker: tracker,
		Picker:  picker,
	}

	m := NewModel(deps, store)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docvault: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// statusBarHeight is the vertical space reserved below the active view.
const statusBarHeight = 2

// Model is the main Bubble Tea model for the application. It owns the
// current route and delegates rendering to the screen that the
// resolver picks for it.
type Model struct {
	deps  views.Deps
	store *storage.TokenStore

	// Navigation
	route router.Route

	// Dimensions
	width  int
	height int

	// Screens
	login    *views.Login
	register *views.Register
	admin    *views.Admin
	editor   *views.Editor
	viewer   *views.Viewer

	// Chrome
	statusBar components.StatusBar
	errorBox  components.ErrorBox

	// Profile fetch state for the current session epoch
	profileRequested bool

	// Most recent top-level failure (logout, profile load)
	lastErr error
}

// NewModel creates the application model.
func NewModel(deps views.Deps, store *storage.TokenStore) *Model {
	return &Model{
		deps:      deps,
		store:     store,
		route:     router.RouteHome,
		login:     views.NewLogin(deps),
		register:  views.NewRegister(deps),
		admin:     views.NewAdmin(deps),
		editor:    views.NewEditor(deps),
		viewer:    views.NewViewer(deps),
		statusBar: components.NewStatusBar(deps.Theme),
		errorBox:  components.NewErrorBox(deps.Theme),
	}
}

// Init warms the profile when a stored session already exists so the
// home screen can greet the user by name.
func (m *Model) Init() tea.Cmd {
	if m.deps.Auth.Session().Authed {
		m.profileRequested = true
		return views.FetchProfileCmd(m.deps)
	}
	return nil
}

// currentView resolves the screen for the current route and session.
func (m *Model) currentView() router.View {
	session := m.deps.Auth.Session()
	return router.Resolve(m.route, session.Authed, m.deps.Auth.Profile())
}

// Update routes messages to the active screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.deps.Theme.SetSize(msg.Width, msg.Height)
		m.login.SetWidth(msg.Width)
		m.register.SetWidth(msg.Width)
		m.admin.SetWidth(msg.Width)
		m.editor.SetWidth(msg.Width)
		m.viewer.SetSize(msg.Width, msg.Height-statusBarHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case views.NavigateMsg:
		return m, m.navigate(msg.Route)

	case views.LoginResultMsg:
		// A successful login changes what the resolver picks for the
		// current route, so the form can no longer receive this through
		// the active-view dispatch. Deliver it to the owning form
		// directly; on success the form navigates to the dashboard.
		if !m.deps.Auth.StillValid(msg.Epoch) {
			return m, nil
		}
		return m, m.login.Update(msg)

	case views.RegisterResultMsg:
		if !m.deps.Auth.StillValid(msg.Epoch) {
			return m, nil
		}
		return m, m.register.Update(msg)

	case views.ProfileLoadedMsg:
		// Results from a previous session are dropped unseen
		if !m.deps.Auth.StillValid(msg.Epoch) {
			return m, nil
		}
		if msg.Err != nil {
			m.lastErr = msg.Err
			// A rejected token means the session is gone; fall back
			// to the login screen via the resolver.
			return m, nil
		}
		m.lastErr = nil
		return m, m.enterDashboard()

	case views.LogoutDoneMsg:
		m.lastErr = msg.Err
		m.profileRequested = false
		m.route = router.RouteHome
		m.login.Reset()
		m.register.Reset()
		return m, nil
	}

	// Session-scoped results that arrive after a logout or re-login
	// are stale and must not touch any screen.
	if epoch, ok := messageEpoch(msg); ok && !m.deps.Auth.StillValid(epoch) {
		return m, nil
	}

	return m, m.updateActive(msg)
}

// messageEpoch extracts the session epoch from result messages.
// Login and register results have their own top-level handling and
// never reach this guard.
func messageEpoch(msg tea.Msg) (uint64, bool) {
	switch msg := msg.(type) {
	case views.FilesLoadedMsg:
		return msg.Epoch, true
	case views.UploadDoneMsg:
		return msg.Epoch, true
	case views.ProcessingDoneMsg:
		return msg.Epoch, true
	case views.AnswerMsg:
		return msg.Epoch, true
	case views.HistoryLoadedMsg:
		return msg.Epoch, true
	case views.UsersLoadedMsg:
		return msg.Epoch, true
	case views.RoleUpdatedMsg:
		return msg.Epoch, true
	default:
		return 0, false
	}
}

// updateActive forwards a message to the screen currently shown.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	switch m.currentView() {
	case router.ViewLogin:
		return m.login.Update(msg)
	case router.ViewRegister:
		return m.register.Update(msg)
	case router.ViewAdmin:
		return m.admin.Update(msg)
	case router.ViewEditor:
		return m.editor.Update(msg)
	case router.ViewViewer:
		return m.viewer.Update(msg)
	default:
		return nil
	}
}

// handleKeyPress processes keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// The editor's caption prompt uses esc to cancel; everywhere
		// else esc returns to the home menu.
		if m.currentView() == router.ViewEditor && m.editor.Capturing() {
			return m, m.editor.Update(msg)
		}
		if m.route != router.RouteHome {
			m.route = router.RouteHome
			return m, nil
		}
		return m, nil
	case "ctrl+o":
		// Log out from anywhere
		if m.deps.Auth.Session().Authed {
			return m, views.LogoutCmd(m.deps)
		}
		return m, nil
	}

	// The home menu owns its single-key navigation
	if m.currentView() == router.ViewHome {
		return m, m.handleHomeKey(msg)
	}

	return m, m.updateActive(msg)
}

// handleHomeKey processes the home menu single-key choices. The home
// menu is only reachable without a session; a live session resolves
// straight to its workspace.
func (m *Model) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "d":
		return m.navigate(router.RouteDashboard)
	case "l":
		return m.navigate(router.RouteLogin)
	case "r":
		return m.navigate(router.RouteRegister)
	case "c":
		return m.navigate(router.RouteContact)
	}
	return nil
}

// navigate switches routes and runs the target screen's entry hook.
func (m *Model) navigate(route router.Route) tea.Cmd {
	m.route = route
	m.lastErr = nil

	switch m.currentView() {
	case router.ViewLogin:
		m.login.Reset()
		return nil
	case router.ViewRegister:
		m.register.Reset()
		return nil
	case router.ViewAdmin, router.ViewEditor, router.ViewViewer, router.ViewNoRole, router.ViewLoading:
		return m.enterDashboard()
	default:
		return nil
	}
}

// enterDashboard resolves the role workspace, fetching the profile
// first when it has not been loaded for this session epoch.
func (m *Model) enterDashboard() tea.Cmd {
	if m.deps.Auth.Profile() == nil {
		if m.profileRequested {
			// Fetch already in flight or failed; the resolver shows
			// the loading screen until a retry succeeds.
			m.profileRequested = false
			return nil
		}
		m.profileRequested = true
		return views.FetchProfileCmd(m.deps)
	}

	switch m.currentView() {
	case router.ViewAdmin:
		return m.admin.Enter()
	case router.ViewEditor:
		return m.editor.Enter()
	case router.ViewViewer:
		return m.viewer.Enter()
	default:
		return nil
	}
}

// View renders the current screen plus the status bar.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	session := m.deps.Auth.Session()
	profile := m.deps.Auth.Profile()

	switch m.currentView() {
	case router.ViewHome:
		username := ""
		if profile != nil {
			username = profile.Username
		}
		content = views.HomeView(m.deps.Theme, session.Authed, username)
	case router.ViewLogin:
		content = m.login.View()
	case router.ViewRegister:
		content = m.register.View()
	case router.ViewAdmin:
		content = m.admin.View()
	case router.ViewEditor:
		content = m.editor.View()
	case router.ViewViewer:
		content = m.viewer.View()
	case router.ViewNoRole:
		username := ""
		if profile != nil {
			username = profile.Username
		}
		content = views.NoRoleView(m.deps.Theme, username)
	case router.ViewLoading:
		content = views.LoadingView(m.deps.Theme)
	case router.ViewContact:
		content = views.ContactView(m.deps.Theme)
	default:
		content = views.NotFoundView(m.deps.Theme, m.route.String())
	}

	if m.lastErr != nil {
		content += "\n" + m.errorBox.View(m.lastErr, m.width)
	}

	return content + "\n" + m.renderStatusBar()
}

// renderStatusBar builds the bottom chrome for the current screen.
func (m *Model) renderStatusBar() string {
	session := m.deps.Auth.Session()

	if session.Authed {
		username := "signed in"
		roleName := ""
		if profile := m.deps.Auth.Profile(); profile != nil {
			username = profile.Username
			roleName = profile.Role().DisplayName()
		}
		m.statusBar.SetIdentity(username, roleName)
		if claims, err := auth.ParseClaims(m.store.AccessToken()); err == nil {
			m.statusBar.SetExpiry(claims.ExpiresAt)
		}
	} else {
		m.statusBar.SetIdentity("", "")
		m.statusBar.SetExpiry(time.Time{})
	}

	m.statusBar.SetShortcuts(m.shortcutsFor(m.currentView()))
	return m.statusBar.View(m.width)
}

// shortcutsFor lists the key hints shown for each screen.
func (m *Model) shortcutsFor(view router.View) []components.Shortcut {
	switch view {
	case router.ViewHome:
		return []components.Shortcut{
			{Key: "d", Desc: "dashboard"},
			{Key: "l", Desc: "login"},
			{Key: "r", Desc: "register"},
			{Key: "c", Desc: "contact"},
			{Key: "q", Desc: "quit"},
		}
	case router.ViewLogin, router.ViewRegister:
		return []components.Shortcut{
			{Key: "tab", Desc: "next field"},
			{Key: "enter", Desc: "submit"},
			{Key: "esc", Desc: "home"},
		}
	case router.ViewAdmin:
		return []components.Shortcut{
			{Key: "1/2/3", Desc: "assign role"},
			{Key: "r", Desc: "reload"},
			{Key: "esc", Desc: "home"},
		}
	case router.ViewEditor:
		return []components.Shortcut{
			{Key: "tab", Desc: "switch pane"},
			{Key: "enter", Desc: "upload"},
			{Key: "p", Desc: "process"},
			{Key: "esc", Desc: "home"},
		}
	case router.ViewViewer:
		return []components.Shortcut{
			{Key: "enter", Desc: "ask"},
			{Key: "pgup/pgdn", Desc: "scroll"},
			{Key: "esc", Desc: "home"},
		}
	default:
		return []components.Shortcut{
			{Key: "esc", Desc: "home"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
}
