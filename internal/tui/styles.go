package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/loadtimer/internal/ui"
)

// Styles for the dashboard, rebuilt from the ui theme by initTUIStyles.
var (
	theme ui.TUITheme

	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	columnHeaderStyle  lipgloss.Style
	threadStyle        lipgloss.Style
	errorStyle         lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusWarmupStyle  lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the application has selected its theme.
func initTUIStyles() {
	theme = ui.GetCurrentTUITheme()
	t := theme

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	columnHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	threadStyle = lipgloss.NewStyle().Foreground(t.Info)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusWarmupStyle = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

// loadStyle colors a CPU percentage by load level.
func loadStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Load(percent))
}
