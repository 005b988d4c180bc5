package ui

import "github.com/charmbracelet/lipgloss"

// ColorReset returns the reset code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold returns the bold code of the active theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorAccent returns the accent color of the active theme.
func ColorAccent() string { return GetCurrentTheme().Accent }

// ColorMuted returns the color used for secondary text.
func ColorMuted() string { return GetCurrentTheme().Muted }

// LoadColor picks an ANSI color for a CPU usage percentage of one core.
func LoadColor(percent float64) string {
	t := GetCurrentTheme()
	switch loadLevel(percent) {
	case 2:
		return t.High
	case 1:
		return t.Medium
	default:
		return t.Low
	}
}

// Load picks a dashboard color for a CPU usage percentage of one core.
func (t TUITheme) Load(percent float64) lipgloss.TerminalColor {
	switch loadLevel(percent) {
	case 2:
		return t.Error
	case 1:
		return t.Warning
	default:
		return t.Success
	}
}

func loadLevel(percent float64) int {
	switch {
	case percent >= 80:
		return 2
	case percent >= 30:
		return 1
	default:
		return 0
	}
}
