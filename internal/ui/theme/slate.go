package theme

import "github.com/charmbracelet/lipgloss"

// Slate theme - dark slate with the teal card palette
var Slate = Theme{
	Name: "slate",

	Background: lipgloss.Color("#0F172A"),
	Foreground: lipgloss.Color("#E2E8F0"),
	Subtle:     lipgloss.Color("#64748B"),
	Highlight:  lipgloss.Color("#1E293B"),
	Border:     lipgloss.Color("#334155"),

	Primary:   lipgloss.Color("#2DD4BF"), // teal
	Secondary: lipgloss.Color("#A78BFA"), // violet
	Info:      lipgloss.Color("#60A5FA"), // blue

	Success: lipgloss.Color("#4ADE80"),
	Warning: lipgloss.Color("#FACC15"),
	Error:   lipgloss.Color("#F87171"),

	DropTarget: lipgloss.Color("#FB923C"),
	Card:       lipgloss.Color("#1E293B"),
}
