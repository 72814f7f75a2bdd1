package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Portal    = lipgloss.Color("#97CE4C")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Red       = lipgloss.Color("#EF4444")
	Gold      = lipgloss.Color("#E5A00D")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(Red)

	ratingStyle = lipgloss.NewStyle().
			Foreground(Gold)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Portal).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(Portal).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)
