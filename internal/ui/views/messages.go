package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/lanes/internal/auth"
	"github.com/dori/lanes/internal/notify"
)

// ToastMsg asks the root model to show a toast
type ToastMsg struct {
	Level notify.Level
	Text  string
}

// NavigateMsg requests a route change. Email prefills the sign-in form.
type NavigateMsg struct {
	Route auth.Route
	Email string
}

// SignedInMsg is sent after a successful sign-in
type SignedInMsg struct {
	Identity string
}

// LogoutRequest is sent when the user logs out from the board
type LogoutRequest struct{}

func toast(level notify.Level, text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Level: level, Text: text} }
}

func navigate(route auth.Route, email string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route, Email: email} }
}
