package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/roles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1F6FEB")).
			Padding(0, 1)

	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F6FEB")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

func statusStyle(s roles.Status) lipgloss.Style {
	switch s {
	case roles.StatusAutomatic:
		return successStyle
	case roles.StatusMultiple:
		return warningStyle
	default:
		return errorStyle
	}
}
