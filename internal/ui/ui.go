package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
	"github.com/desertthunder/songsmith/internal/tasks"
	"github.com/desertthunder/songsmith/internal/view"
)

// Route is the screen the TUI is showing.
type Route int

const (
	Home Route = iota
	AuthSuccess
	Dashboard
)

func (r Route) String() string {
	switch r {
	case Home:
		return string(session.RouteHome)
	case AuthSuccess:
		return "/auth-success"
	case Dashboard:
		return string(session.RouteDashboard)
	default:
		return ""
	}
}

// LoginFunc runs the browser authorization flow and returns where to go next.
type LoginFunc func(ctx context.Context) (session.Navigation, error)

// ModelOpts holds the dependencies of a [Model].
type ModelOpts struct {
	Store       session.Store
	Loader      *tasks.Loader
	Navigations Navigations // the loader's navigator
	Login       LoginFunc   // nil disables login from the home screen
	LoginURL    string      // shown while waiting for the browser
	Tab         view.Tab    // tab selected on mount
	Logger      *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	route       Route
	store       session.Store
	guard       *session.Guard
	loader      *tasks.Loader
	navigations Navigations
	login       LoginFunc
	loginURL    string
	logger      *log.Logger

	machine  *view.Machine
	firstTab view.Tab
	mounted  bool
	updates <-chan tasks.LoadState
	state   tasks.LoadState
	notice  string

	width   int
	height  int
	content list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	content := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	content.SetFilteringEnabled(false)
	content.SetShowHelp(false)
	content.SetShowStatusBar(false)

	return &Model{
		ctx:         ctx,
		route:       Home,
		store:       opts.Store,
		guard:       session.NewGuard(opts.Store, logger),
		loader:      opts.Loader,
		navigations: opts.Navigations,
		login:       opts.Login,
		loginURL:    opts.LoginURL,
		logger:      logger,
		machine:     view.NewMachine(),
		firstTab:    opts.Tab,
		content:     content,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init enters the dashboard (or home, when signed out) and starts listening for navigations.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForNavigation(), m.spinner.Tick, m.navigate(session.Navigation{Route: session.RouteDashboard}))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.content.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.route {
		case Home:
			return m.handleHomeKeys(msg)
		case AuthSuccess:
			return m.handleAuthKeys(msg)
		case Dashboard:
			return m.handleDashboardKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateChanged:
		update := msg.data.(stateUpdate)
		if update.source != m.updates {
			return m, nil
		}
		m.state = update.state
		m.refreshContent()
		return m, m.waitForState()

	case MsgNavigate:
		nav := msg.data.(session.Navigation)
		m.logger.Debug("navigating", "to", nav.String())
		return m, tea.Batch(m.waitForNavigation(), m.navigate(nav))

	case MsgLoginDone:
		result := msg.data.(loginResult)
		if result.err != nil {
			m.logger.Error("login failed", "error", result.err)
			m.route = Home
			m.notice = fmt.Sprintf("Login failed: %v", result.err)
			return m, nil
		}
		return m, m.navigate(result.nav)
	}
	return m, nil
}

// navigate switches routes. Entering the dashboard is guarded; leaving it abandons any load.
func (m *Model) navigate(nav session.Navigation) tea.Cmd {
	switch nav.Route {
	case session.RouteDashboard:
		if m.guard.Enter() == session.Denied {
			m.leaveDashboard()
			m.route = Home
			return nil
		}
		if m.route == Dashboard {
			return m.load()
		}
		m.route = Dashboard
		m.notice = ""
		m.resetView()
		m.updates = m.loader.Subscribe()
		return tea.Batch(m.waitForState(), m.load())

	default:
		m.leaveDashboard()
		m.route = Home
		m.notice = ""
		if nav.Error == session.ErrorAuthenticationFailed {
			m.notice = "Authentication failed. Please try again."
		}
		return nil
	}
}

// resetView starts a mount at overview/medium; the first mount opens on the requested tab.
func (m *Model) resetView() {
	state := view.Initial()
	if !m.mounted {
		state.Tab = m.firstTab
		m.mounted = true
	}
	m.machine.Reset(state)
}

func (m *Model) leaveDashboard() {
	if m.route == Dashboard {
		m.loader.Unmount()
	}
	m.updates = nil
	m.state = tasks.LoadState{}
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		if m.login == nil {
			m.notice = "Run `songsmith login` to sign in."
			return m, nil
		}
		m.route = AuthSuccess
		m.notice = ""
		return m, m.startLogin()
	}
	return m, nil
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.leaveDashboard()
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.selectTab(m.machine.Current().Tab.Next())
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.selectTab(m.machine.Current().Tab.Prev())
		return m, nil
	case key.Matches(msg, m.keys.short):
		m.selectRange(models.ShortTerm)
		return m, nil
	case key.Matches(msg, m.keys.medium):
		m.selectRange(models.MediumTerm)
		return m, nil
	case key.Matches(msg, m.keys.long):
		m.selectRange(models.LongTerm)
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.load()
	case key.Matches(msg, m.keys.logout):
		nav, err := session.Logout(m.store)
		if err != nil {
			m.logger.Error("logout failed", "error", err)
		}
		return m, m.navigate(nav)
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

func (m *Model) selectTab(tab view.Tab) {
	if m.machine.SetTab(tab) {
		m.refreshContent()
	}
}

func (m *Model) selectRange(r models.TimeRange) {
	if m.machine.SetRange(r) {
		m.refreshContent()
	}
}

// refreshContent rebuilds the list from the already loaded snapshot.
func (m *Model) refreshContent() {
	state := m.machine.Current()
	m.content.Title = state.Tab.Title()
	m.content.SetItems(itemsFor(state, m.state.Taste))
	m.content.ResetSelected()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		m.loader.Load(m.ctx)
		return nil
	}
}

func (m *Model) startLogin() tea.Cmd {
	return func() tea.Msg {
		nav, err := m.login(m.ctx)
		return loginDoneMsg(nav, err)
	}
}

func (m *Model) waitForState() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return stateChangedMsg(updates, state)
	}
}

func (m *Model) waitForNavigation() tea.Cmd {
	if m.navigations == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case nav := <-m.navigations:
			return navigateMsg(nav)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the UI based on the current route.
func (m *Model) View() string {
	switch m.route {
	case Home:
		return m.renderHome()
	case AuthSuccess:
		return m.renderAuth()
	case Dashboard:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) renderHome() string {
	title := styles.title.Render("songsmith")
	body := "Discover your music taste.\n\nYou are not logged in."

	var notice string
	if m.notice != "" {
		notice = "\n\n" + styles.err.Render(m.notice)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.login, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, body, notice, helpView)
}

func (m *Model) renderAuth() string {
	title := styles.title.Render("Logging in")
	body := fmt.Sprintf("%s Complete the authorization in your browser...", m.spinner.View())
	if m.loginURL != "" {
		body += "\n\n" + styles.help.Render("If no browser opened, visit "+m.loginURL)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

func (m *Model) renderDashboard() string {
	state := m.machine.Current()

	tabs := make([]string, 0, len(view.Tabs))
	for _, t := range view.Tabs {
		tabs = append(tabs, styles.tab(t.Title(), t == state.Tab))
	}
	ranges := make([]string, 0, len(models.TimeRanges))
	for _, r := range models.TimeRanges {
		ranges = append(ranges, styles.tab(r.Label(), r == state.Range))
	}

	header := strings.Join(tabs, " ")
	if state.Tab.Ranged() {
		header += "\n" + strings.Join(ranges, " ")
	}

	var body string
	switch m.state.Status {
	case tasks.Loading:
		body = fmt.Sprintf("%s Loading your music taste...", m.spinner.View())
	case tasks.Failed:
		body = styles.err.Render(m.state.Kind.Message())
	case tasks.Ready:
		if state.Tab == view.Overview {
			body = m.renderOverview(state)
		} else {
			body = m.content.View()
		}
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.short, m.keys.medium, m.keys.long, m.keys.reload, m.keys.logout, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s\n\n%s", header, body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderOverview(state view.State) string {
	var name string
	if m.state.Profile != nil {
		name = m.state.Profile.DisplayName
	}
	artists := state.Artists(m.state.Taste)
	tracks := state.Tracks(m.state.Taste)

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Welcome, %s", name)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Top genre (%s): %s\n", state.Range.Label(), styles.ok.Render(view.TopGenre(artists)))
	fmt.Fprintf(&b, "Top artists: %d • Top tracks: %d", len(artists), len(tracks))
	if m.state.Taste != nil {
		fmt.Fprintf(&b, " • Recently played: %d • Playlists: %d", len(m.state.Taste.RecentlyPlayed), len(m.state.Taste.Playlists))
	}

	if len(artists) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("Most listened:"))
		for i, a := range artists {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "\n  %d. %s", i+1, a.Name)
		}
	}
	return b.String()
}
