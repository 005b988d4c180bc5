package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/loadtimer/internal/format"
	"github.com/agbru/loadtimer/internal/procfs"
	"github.com/agbru/loadtimer/internal/stats"
)

const (
	trendWidth    = 24
	nameColWidth  = 24
	valueColWidth = 9
)

// EntitiesModel lists every measured entity with its CPU usage and a trend
// sparkline of the per-cycle means.
type EntitiesModel struct {
	rows        []stats.ProcMetrics
	trends      map[procfs.ID]*RingBuffer
	showThreads bool
	offset      int
	width       int
	height      int
}

// NewEntitiesModel creates an empty panel.
func NewEntitiesModel() EntitiesModel {
	return EntitiesModel{
		trends:      make(map[procfs.ID]*RingBuffer),
		showThreads: true,
	}
}

// SetSize updates dimensions.
func (e *EntitiesModel) SetSize(w, h int) {
	e.width = w
	e.height = h
	e.clampOffset()
}

// Update replaces the rows and appends each entity's mean to its trend.
// Trends of entities that disappeared are dropped.
func (e *EntitiesModel) Update(metrics []stats.ProcMetrics) {
	seen := make(map[procfs.ID]bool, len(metrics))
	for _, m := range metrics {
		id := procfs.ID{PID: m.PID, TID: m.TID}
		seen[id] = true
		rb, ok := e.trends[id]
		if !ok {
			rb = NewRingBuffer(trendWidth)
			e.trends[id] = rb
		}
		rb.Push(m.CPUUsage.Mean)
	}
	for id := range e.trends {
		if !seen[id] {
			delete(e.trends, id)
		}
	}
	e.rows = metrics
	e.clampOffset()
}

// ToggleThreads shows or hides thread rows.
func (e *EntitiesModel) ToggleThreads() {
	e.showThreads = !e.showThreads
	e.offset = 0
}

// Scroll moves the first visible row by delta.
func (e *EntitiesModel) Scroll(delta int) {
	e.offset += delta
	e.clampOffset()
}

// PageSize is the number of rows that fit in the panel.
func (e EntitiesModel) PageSize() int {
	// Borders and the column header.
	return max(e.height-3, 1)
}

func (e *EntitiesModel) clampOffset() {
	e.offset = min(e.offset, max(len(e.visible())-e.PageSize(), 0))
	e.offset = max(e.offset, 0)
}

func (e EntitiesModel) visible() []stats.ProcMetrics {
	if e.showThreads {
		return e.rows
	}
	out := make([]stats.ProcMetrics, 0, len(e.rows))
	for _, m := range e.rows {
		if m.TID == 0 {
			out = append(out, m)
		}
	}
	return out
}

// View renders the panel.
func (e EntitiesModel) View() string {
	var b strings.Builder
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s  %s",
		nameColWidth, "Process",
		valueColWidth, "CPU %",
		valueColWidth, "± %",
		valueColWidth, "ticks",
		"trend")))

	rows := e.visible()
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("waiting for the first cycle..."))
	}
	end := min(e.offset+e.PageSize(), len(rows))
	for _, m := range rows[e.offset:end] {
		b.WriteString("\n")
		b.WriteString(e.renderRow(m))
	}

	return panelStyle.
		Width(max(e.width-2, 0)).
		Height(max(e.height-2, 0)).
		Render(b.String())
}

func (e EntitiesModel) renderRow(m stats.ProcMetrics) string {
	name := truncate(m.Name, nameColWidth)
	nameCell := fmt.Sprintf("%-*s", nameColWidth, name)
	if m.TID != 0 {
		nameCell = threadStyle.Render(nameCell)
	}
	cpu := loadStyle(m.CPUUsage.Mean).Render(fmt.Sprintf("%*s", valueColWidth, format.FormatFixed(m.CPUUsage.Mean)))
	dev := fmt.Sprintf("%*s", valueColWidth, format.FormatFixed(m.CPUUsage.StdDev))
	ticks := fmt.Sprintf("%*s", valueColWidth, format.FormatFixed(m.Total.Mean))

	var trend string
	if rb, ok := e.trends[procfs.ID{PID: m.PID, TID: m.TID}]; ok {
		trend = loadStyle(rb.Last()).Render(RenderSparkline(rb.Slice(), 100))
	}
	return nameCell + " " + cpu + " " + dev + " " + ticks + "  " + trend
}

// truncate shortens s to at most n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 || len(r) <= 1 {
		return string(r[:min(n, len(r))])
	}
	return string(r[:n-1]) + "…"
}
