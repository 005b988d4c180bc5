package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs the ANSI codes of the plain-text output with the lipgloss
// palette of the dashboard. Low, Medium and High color CPU load levels.
type Theme struct {
	Name string

	Accent string
	Muted  string
	Low    string
	Medium string
	High   string
	Bold   string
	Reset  string

	TUI TUITheme
}

// TUITheme defines lipgloss colors for the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// DarkTheme targets dark terminal backgrounds.
	DarkTheme = Theme{
		Name:   "dark",
		Accent: "\033[38;5;44m",
		Muted:  "\033[38;5;244m",
		Low:    "\033[38;5;114m",
		Medium: "\033[38;5;179m",
		High:   "\033[38;5;168m",
		Bold:   "\033[1m",
		Reset:  "\033[0m",
		TUI: TUITheme{
			Text:    lipgloss.Color("#D0D0D0"),
			Border:  lipgloss.Color("#2E8B8B"),
			Accent:  lipgloss.Color("#3FC1C9"),
			Success: lipgloss.Color("#7BC96F"),
			Warning: lipgloss.Color("#E5C07B"),
			Error:   lipgloss.Color("#E06C75"),
			Dim:     lipgloss.Color("#5C6370"),
			Info:    lipgloss.Color("#61AFEF"),
		},
	}

	// NoColorTheme disables every escape code and color.
	NoColorTheme = Theme{
		Name: "none",
		TUI: TUITheme{
			Text:    lipgloss.NoColor{},
			Border:  lipgloss.NoColor{},
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Warning: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Info:    lipgloss.NoColor{},
		},
	}

	// DarkTUITheme is the dashboard palette of DarkTheme.
	DarkTUITheme = DarkTheme.TUI

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().TUI
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme selects the theme for a run. Colors are disabled when noColor is
// set or the NO_COLOR environment variable exists (https://no-color.org/).
func InitTheme(noColor bool) {
	_, envNoColor := os.LookupEnv("NO_COLOR")
	if noColor || envNoColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
