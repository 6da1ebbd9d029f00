package tui

import "github.com/charmbracelet/lipgloss"

const (
	cyan     = lipgloss.Color("#79c3ee")
	black    = lipgloss.Color("#101419")
	green    = lipgloss.Color("#78dba9")
	hotPink  = lipgloss.Color("#FF06B7")
	darkGray = lipgloss.Color("#767676")
	red      = lipgloss.Color("#e05f65")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(hotPink)

	selectedStyle = lipgloss.NewStyle().
			Background(cyan).
			Foreground(black)

	unSelectedStyle = lipgloss.NewStyle().UnsetBackground().UnsetForeground()
	inputStyle      = lipgloss.NewStyle().Foreground(cyan)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(hotPink).
			Padding(2, 2, 2, 4).
			Align(lipgloss.Left).
			Width(80)

	buttonStyle        = lipgloss.NewStyle().Bold(true).Foreground(green)
	buttonFocusedStyle = lipgloss.NewStyle().Background(green).Foreground(black).Bold(true)
	successStyle       = lipgloss.NewStyle().Foreground(green).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(red).Bold(true)
	helpStyle          = lipgloss.NewStyle().Foreground(darkGray)
)
