package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Dragging
	DragUp    key.Binding
	DragDown  key.Binding
	DragLeft  key.Binding
	DragRight key.Binding

	// Cards
	Add    key.Binding
	Open   key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Lists
	NewList    key.Binding
	RenameList key.Binding
	DeleteList key.Binding

	// General
	Search     key.Binding
	Help       key.Binding
	ThemeCycle key.Binding
	Logout     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev list"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next list"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		// Dragging
		DragUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "drag up"),
		),
		DragDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "drag down"),
		),
		DragLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "drag to prev list"),
		),
		DragRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "drag to next list"),
		),

		// Cards
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add card"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete card"),
		),

		// Lists
		NewList: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new list"),
		),
		RenameList: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename list"),
		),
		DeleteList: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete list"),
		),

		// General
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "cycle theme"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "log out"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Open, k.DragLeft, k.DragRight, k.Search, k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.DragUp, k.DragDown, k.DragLeft, k.DragRight},
		{k.Add, k.Open, k.Edit, k.Delete},
		{k.NewList, k.RenameList, k.DeleteList},
		{k.Search, k.ThemeCycle, k.Logout, k.Help, k.Quit},
	}
}
