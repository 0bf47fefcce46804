package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTickMsg re-renders once the oldest toast may have expired
type toastTickMsg struct{}

func toastTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastTickMsg{} })
}
