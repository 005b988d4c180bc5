package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/loadtimer/internal/format"
)

// HeaderModel renders the top bar: title, version, targets, cycle count and
// elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	pids      []int
	cycles    int
	interval  time.Duration
	width     int
}

// NewHeaderModel creates a header for the given targets.
func NewHeaderModel(version string, pids []int, interval time.Duration) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		pids:      pids,
		interval:  interval,
	}
}

// SetCycles records the number of completed cycles.
func (h *HeaderModel) SetCycles(n int) { h.cycles = n }

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "loadtimer"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	parts := []string{
		titleStyle.Render(titleText),
		accentStyle.Render("PIDs " + joinPIDs(h.pids)),
		accentStyle.Render(fmt.Sprintf("every %s", format.FormatSeconds(h.interval.Seconds()))),
		accentStyle.Render(fmt.Sprintf("cycle %d", h.cycles)),
		accentStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.elapsed())),
	}
	row := strings.Join(parts, pipe)
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + strings.Repeat(" ", gap))
}

func joinPIDs(pids []int) string {
	s := make([]string, len(pids))
	for i, p := range pids {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ", ")
}
