package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/loadtimer/internal/format"
	"github.com/agbru/loadtimer/internal/metrics"
	"github.com/agbru/loadtimer/internal/sysmon"
)

// SystemModel shows host-wide load next to the targets: a braille chart of
// total CPU usage and a summary line, plus the profiler's own footprint.
type SystemModel struct {
	host    sysmon.Stats
	self    metrics.SelfUsage
	cpu     *RingBuffer
	retired int
	err     error
	width   int
	height  int
}

// NewSystemModel creates an empty panel.
func NewSystemModel() SystemModel {
	return SystemModel{cpu: NewRingBuffer(2 * 80)}
}

// SetSize updates dimensions and sizes the CPU history to the chart width.
func (s *SystemModel) SetSize(w, h int) {
	s.width = w
	s.height = h
	s.cpu.Resize(2 * s.chartWidth())
}

// UpdateHost records a host snapshot.
func (s *SystemModel) UpdateHost(st sysmon.Stats) {
	s.host = st
	s.cpu.Push(st.CPUPercent)
}

// UpdateSelf records the profiler's own usage.
func (s *SystemModel) UpdateSelf(u metrics.SelfUsage) { s.self = u }

// SetRetired records the number of retired threads.
func (s *SystemModel) SetRetired(n int) { s.retired = n }

// SetError shows err in place of the summary.
func (s *SystemModel) SetError(err error) { s.err = err }

func (s SystemModel) chartWidth() int {
	// Borders plus the left label column.
	return max(s.width-4-len("host "), 1)
}

func (s SystemModel) chartRows() int {
	// Borders and two text lines.
	return max(s.height-4, 1)
}

// View renders the panel.
func (s SystemModel) View() string {
	var b strings.Builder

	chart := RenderBrailleChart(s.cpu.Slice(), s.chartWidth(), s.chartRows(), 100)
	for i := range s.chartRows() {
		label := "     "
		if i == 0 {
			label = "host "
		}
		b.WriteString(dimStyle.Render(label))
		if i < len(chart) {
			b.WriteString(loadStyle(s.host.CPUPercent).Render(chart[i]))
		}
		b.WriteString("\n")
	}

	if s.err != nil {
		b.WriteString(errorStyle.Render("error: " + s.err.Error()))
	} else {
		b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %.2f  %s %d",
			dimStyle.Render("CPU"), accentStyle.Render(format.FormatPercent(s.host.CPUPercent)),
			dimStyle.Render("Mem"), accentStyle.Render(format.FormatPercent(s.host.MemPercent)),
			dimStyle.Render("Load"), s.host.Load1,
			dimStyle.Render("cores"), s.host.NumCPU))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("self: %s  retired threads: %d", s.self, s.retired)))

	return panelStyle.
		Width(max(s.width-2, 0)).
		Height(max(s.height-2, 0)).
		Render(b.String())
}
