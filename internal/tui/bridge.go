package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/stats"
)

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the session goroutine needs a pointer that
// survives the copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op until SetProgram is called.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by
// forwarding warm-up progress as WarmupMsg.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan into the program.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	for update := range progressChan {
		t.ref.Send(WarmupMsg{Update: update})
	}
}

// TUIResultPresenter implements orchestration.ResultPresenter by sending
// every aggregate set to the program instead of drawing a table.
type TUIResultPresenter struct {
	ref     *programRef
	sampler orchestration.Sampler
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentTable sends a SampleMsg. It runs on the session goroutine, between
// cycles, so reading the sampler counters is safe. Nothing is written, so it
// reports zero lines.
func (t *TUIResultPresenter) PresentTable(metrics []stats.ProcMetrics, _ io.Writer) int {
	t.ref.Send(SampleMsg{
		Metrics: metrics,
		Cycles:  t.sampler.Cycles(),
		Retired: t.sampler.Retired(),
	})
	return 0
}

// ClearLines does nothing; the dashboard redraws itself.
func (t *TUIResultPresenter) ClearLines(int, io.Writer) {}
