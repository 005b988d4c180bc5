package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/loadtimer/internal/format"
	"github.com/agbru/loadtimer/internal/stats"
	"github.com/agbru/loadtimer/internal/ui"
)

// TableHeaders are the column titles of the result table.
var TableHeaders = []string{
	"Process",
	"CPU %",
	"CPU % stddev",
	"total mean",
	"total stddev",
	"utime mean",
	"stime mean",
}

// TableRow formats one aggregate as table cells.
func TableRow(m stats.ProcMetrics) []string {
	return []string{
		m.Name,
		format.FormatFixed(m.CPUUsage.Mean),
		format.FormatFixed(m.CPUUsage.StdDev),
		format.FormatFixed(m.Total.Mean),
		format.FormatFixed(m.Total.StdDev),
		format.FormatFixed(m.User.Mean),
		format.FormatFixed(m.System.Mean),
	}
}

// RenderTable renders metrics as a bordered table. The process column is
// left aligned, numbers are right aligned and the CPU column is colored by
// load.
func RenderTable(metrics []stats.ProcMetrics) string {
	theme := ui.GetCurrentTUITheme()
	base := lipgloss.NewStyle().Padding(0, 1)
	header := base.Bold(true).Foreground(theme.Accent)

	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = TableRow(m)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(TableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 0 {
				return base.Align(lipgloss.Left)
			}
			style := base.Align(lipgloss.Right)
			if col == 1 && row >= 0 && row < len(metrics) {
				style = style.Foreground(theme.Load(metrics[row].CPUUsage.Mean))
			}
			return style
		})
	return t.String()
}

// WriteTable writes the table and returns the number of lines it occupies.
func WriteTable(out io.Writer, metrics []stats.ProcMetrics) int {
	rendered := RenderTable(metrics)
	fmt.Fprintln(out, rendered)
	return strings.Count(rendered, "\n") + 1
}

// ClearLines moves the cursor up n lines and erases everything below it, so
// the next table overwrites the previous one even when it has fewer rows.
func ClearLines(out io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(out, "\x1b[%dA\x1b[J", n)
}

// PrintRunHeader prints what is being measured and how.
func PrintRunHeader(out io.Writer, pids []int, numSamples int, sampleSecs float64) {
	fmt.Fprintf(out, "Measuring CPU usage of PIDs %s%s%s\n", ui.ColorBold(), formatPIDs(pids), ui.ColorReset())
	fmt.Fprintf(out, "%d sample(s) of %s\n", numSamples, format.FormatSeconds(sampleSecs))
}

func formatPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprint(pid)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
