package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// runState is the lifecycle shown in the footer.
type runState int

const (
	stateWarmup runState = iota
	stateRunning
	stateDone
	stateError
)

// FooterModel renders key help and the session status.
type FooterModel struct {
	keymap KeyMap
	state  runState
	paused bool
	warmup string
	width  int
}

// NewFooterModel creates a footer in the warm-up state.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{keymap: km}
}

// SetWarmup shows warm-up progress.
func (f *FooterModel) SetWarmup(cycle, total int) {
	f.warmup = fmt.Sprintf("%d/%d", cycle, total)
}

// SetState updates the lifecycle state.
func (f *FooterModel) SetState(s runState) { f.state = s }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

func (f FooterModel) status() string {
	switch {
	case f.state == stateError:
		return statusErrorStyle.Render("ERROR")
	case f.state == stateDone:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	case f.state == stateWarmup:
		label := "WARMING UP"
		if f.warmup != "" {
			label += " " + f.warmup
		}
		return statusWarmupStyle.Render(label)
	default:
		return statusRunningStyle.Render("SAMPLING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var help []string
	for _, b := range f.keymap.footerBindings() {
		h := b.Help()
		help = append(help, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(help, "  ")
	right := f.status() + " "
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
