package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal styles shared by all commands
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#A78BFA"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#34D399"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F87171"))

	// Marks servers owned by the logged in user
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA"))

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34D399"))

	offlineStyle = lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true)
)
