package cmd

import "github.com/charmbracelet/lipgloss"

var (
	// bannerStyle for the REPL greeting
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// dimStyle for muted hint text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// errorStyle for REPL-level errors (never for script output)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
