package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#89b4fa")
	muted   = lipgloss.Color("#7f849c")
	danger  = lipgloss.Color("#f38ba8")
	success = lipgloss.Color("#a6e3a1")
	link    = lipgloss.Color("#f9e2af")
)

// Styles holds the lipgloss styles of the terminal UI.
type Styles struct {
	Prompt  lipgloss.Style
	Command lipgloss.Style
	Info    lipgloss.Style
	Error   lipgloss.Style
	Content lipgloss.Style
	Folder  lipgloss.Style
	File    lipgloss.Style
	Help    lipgloss.Style
	Done    lipgloss.Style
	Banner  lipgloss.Style
	Link    lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
}

// DefaultStyles returns the dark palette.
func DefaultStyles() Styles {
	return Styles{
		Prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Command: lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle().Foreground(muted),
		Error:   lipgloss.NewStyle().Foreground(danger),
		Content: lipgloss.NewStyle(),
		Folder:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		File:    lipgloss.NewStyle(),
		Help:    lipgloss.NewStyle().Foreground(accent).Width(10),
		Done:    lipgloss.NewStyle().Foreground(success),
		Banner:  lipgloss.NewStyle().Foreground(accent),
		Link:    lipgloss.NewStyle().Foreground(link).Underline(true),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Footer: lipgloss.NewStyle().Foreground(muted),
	}
}
