package tui

import (
	"github.com/charmbracelet/lipgloss"

	"eisenhower-app/internal/matrix"
)

var (
	colorMuted   = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("69")
	colorSuccess = lipgloss.Color("#2E8B57")
	colorError   = lipgloss.Color("#E64646")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	cursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)

	noticeStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
)

func quadrantStyle(q matrix.Quadrant, width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(q.Color())).
		Padding(0, 1).
		Width(width).
		Height(height)
}

func quadrantHeader(q matrix.Quadrant) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(q.Color())).Render(q.Title()) +
		" " + mutedStyle.Render(q.Description())
}
