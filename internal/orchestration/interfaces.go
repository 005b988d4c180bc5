package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/loadtimer/internal/sampler"
	"github.com/agbru/loadtimer/internal/stats"
)

// Sampler is the part of sampler.Coordinator a session needs.
type Sampler interface {
	Sample(ctx context.Context, interval time.Duration) error
	Rebase() error
	AllBuffers() []*sampler.Buffer
	Cycles() int
	Retired() int
}

var _ Sampler = (*sampler.Coordinator)(nil)

// ProgressReporter displays warm-up progress. DisplayProgress runs in its
// own goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer) {
	f(wg, progressChan, out)
}

// NullProgressReporter drains the progress channel without output.
// Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter renders aggregates.
type ResultPresenter interface {
	// PresentTable writes the table and returns the number of lines written.
	PresentTable(metrics []stats.ProcMetrics, out io.Writer) int
	// ClearLines moves the cursor back over the last n lines.
	ClearLines(n int, out io.Writer)
}

// MetricsObserver receives every aggregate set a session computes.
type MetricsObserver interface {
	Observe(metrics []stats.ProcMetrics, cycles, retired int)
}

// NullObserver discards observations.
type NullObserver struct{}

// Observe does nothing.
func (NullObserver) Observe([]stats.ProcMetrics, int, int) {}
