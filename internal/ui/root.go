package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/lanes/internal/app"
	"github.com/dori/lanes/internal/auth"
	"github.com/dori/lanes/internal/notify"
	"github.com/dori/lanes/internal/ui/theme"
	"github.com/dori/lanes/internal/ui/views"
)

// RootModel routes between the sign-in, register and board screens. Every
// route change passes through the session guard.
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	route       auth.Route
	authView    views.AuthView
	boardView   views.BoardView
	helpVisible bool
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	email, err := application.Remember.Email()
	if err != nil {
		application.Logger.Warn("reading remembered email", "err", err)
	}

	return RootModel{
		app:       application,
		keys:      DefaultKeyMap(),
		help:      h,
		route:     auth.RouteSignIn,
		authView:  views.NewAuthView(application.Accounts, auth.RouteSignIn, email),
		boardView: views.NewBoardView(application.Board),
	}
}

// Route returns the screen currently shown
func (m RootModel) Route() auth.Route {
	return m.route
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.authView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.authView = m.authView.SetSize(m.width, m.contentHeight())
		m.boardView = m.boardView.SetSize(m.width, m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		inputMode := m.route != auth.RouteBoard || m.boardView.IsInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !inputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			return m, m.cycleTheme()
		}

		if inputMode {
			break
		}

		if key.Matches(msg, m.keys.Help) {
			m.helpVisible = !m.helpVisible
			return m, nil
		}
		if m.helpVisible {
			if msg.String() == "esc" {
				m.helpVisible = false
			}
			return m, nil
		}

	case views.NavigateMsg:
		return m.navigate(msg.Route, msg.Email)

	case views.SignedInMsg:
		if err := m.app.Session.Login(msg.Identity); err != nil {
			m.app.Logger.Error("sign in", "err", err)
			return m, m.push(notify.LevelError, "Sign in failed.")
		}
		if err := m.app.Remember.Remember(msg.Identity); err != nil {
			m.app.Logger.Warn("remembering email", "err", err)
		}
		m.app.Logger.Info("signed in", "identity", msg.Identity)
		return m.navigate(auth.RouteBoard, "")

	case views.LogoutRequest:
		identity := m.app.Session.Identity()
		m.app.Session.Logout()
		m.app.Logger.Info("signed out", "identity", identity)

		m.boardView.Close()
		m.boardView = views.NewBoardView(m.app.Board).SetSize(m.width, m.contentHeight())
		m.helpVisible = false

		next, cmd := m.navigate(auth.RouteSignIn, identity)
		return next, tea.Batch(cmd, m.push(notify.LevelSuccess, "Logged out successfully!"))

	case views.ToastMsg:
		return m, m.push(msg.Level, msg.Text)

	case toastTickMsg:
		if len(m.app.Notifier.Active()) > 0 {
			return m, toastTick(notify.DefaultTTL / 3)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.route == auth.RouteBoard {
		m.boardView, cmd = m.boardView.Update(msg)
	} else {
		m.authView, cmd = m.authView.Update(msg)
	}
	return m, cmd
}

// navigate moves to the route the session allows for to
func (m RootModel) navigate(to auth.Route, email string) (RootModel, tea.Cmd) {
	resolved := m.app.Session.Resolve(to)
	if resolved != to {
		m.app.Logger.Debug("route redirected", "from", to, "to", resolved)
	}
	m.route = resolved

	if resolved == auth.RouteBoard {
		return m, nil
	}
	m.authView = views.NewAuthView(m.app.Accounts, resolved, email).SetSize(m.width, m.contentHeight())
	return m, m.authView.Init()
}

// push queues a toast and schedules a redraw for when it expires
func (m RootModel) push(level notify.Level, text string) tea.Cmd {
	if err := m.app.Notifier.Push(level, text); err != nil {
		m.app.Logger.Debug("desktop notification failed", "err", err)
	}
	return toastTick(notify.DefaultTTL)
}

// cycleTheme cycles through available themes
func (m RootModel) cycleTheme() tea.Cmd {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			return m.push(notify.LevelInfo, fmt.Sprintf("Theme: %s", next.Name))
		}
	}
	return nil
}

// contentHeight is the space left between the header and the footer
func (m RootModel) contentHeight() int {
	return max(m.height-3, 0)
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	contentHeight := m.contentHeight()

	var content string
	switch {
	case m.helpVisible:
		h := m.help
		h.ShowAll = true
		content = styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.PanelTitle.Render("Keyboard shortcuts"),
			h.View(m.keys),
			"",
			styles.Label.Render("Press ? or esc to close"),
		))
	case m.route == auth.RouteBoard:
		content = m.boardView.View()
	default:
		content = m.authView.View()
	}

	// Ensure content fills available space
	if lines := strings.Count(content, "\n") + 1; lines < contentHeight {
		content += strings.Repeat("\n", contentHeight-lines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("lanes")

	subtle := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	screen := "Sign In"
	switch m.route {
	case auth.RouteRegister:
		screen = "Register"
	case auth.RouteBoard:
		screen = "Board"
	}
	left := lipgloss.JoinHorizontal(lipgloss.Center, title, subtle.Render(fmt.Sprintf("[%s]", screen)))

	right := subtle.Render(fmt.Sprintf("theme: %s", t.Name))
	if id := m.app.Session.Identity(); id != "" {
		right = styles.StatusValue.Render(id) + right
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the newest toast and the key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	var toastLine string
	if active := m.app.Notifier.Active(); len(active) > 0 {
		latest := active[len(active)-1]
		style := styles.ToastInfo
		switch latest.Level {
		case notify.LevelSuccess:
			style = styles.ToastSuccess
		case notify.LevelError:
			style = styles.ToastError
		}
		toastLine = style.Render(latest.Message)
	}

	var hints string
	if m.route == auth.RouteBoard && !m.boardView.IsInputMode() && !m.helpVisible {
		h := m.help
		h.ShowAll = false
		hints = h.View(m.keys)
	}

	return toastLine + "\n" + hints
}
