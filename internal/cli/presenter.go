package cli

import (
	"io"
	"sync"

	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/stats"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for the warm-up.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, out io.Writer) {
	DisplayProgress(wg, progressChan, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with the
// lipgloss table.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentTable writes the result table.
func (CLIResultPresenter) PresentTable(metrics []stats.ProcMetrics, out io.Writer) int {
	return WriteTable(out, metrics)
}

// ClearLines erases the previously written table.
func (CLIResultPresenter) ClearLines(n int, out io.Writer) {
	ClearLines(out, n)
}
