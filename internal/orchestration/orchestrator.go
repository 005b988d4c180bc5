package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/loadtimer/internal/stats"
)

// ProgressBufferSize is the capacity of the warm-up progress channel.
const ProgressBufferSize = 8

// RunOptions configures a sampling session.
type RunOptions struct {
	Interval   time.Duration
	NumSamples int
	Break      time.Duration
	TickRate   float64
}

// Session runs sampling cycles against a Sampler.
type Session struct {
	sampler  Sampler
	opts     RunOptions
	observer MetricsObserver
}

// NewSession creates a session. A nil observer discards observations.
func NewSession(s Sampler, opts RunOptions, observer MetricsObserver) *Session {
	if observer == nil {
		observer = NullObserver{}
	}
	return &Session{sampler: s, opts: opts, observer: observer}
}

// Step runs one cycle. When a break is configured it first idles for the
// break and rebases, so the idle time never shows up in a sample.
func (s *Session) Step(ctx context.Context, first bool) error {
	if !first && s.opts.Break > 0 {
		if err := pause(ctx, s.opts.Break); err != nil {
			return err
		}
		if err := s.sampler.Rebase(); err != nil {
			return err
		}
	}
	return s.sampler.Sample(ctx, s.opts.Interval)
}

// Collect runs the warm-up: NumSamples cycles, enough to fill every buffer.
// Progress is reported after each cycle.
func (s *Session) Collect(ctx context.Context, reporter ProgressReporter, out io.Writer) error {
	progressChan := make(chan ProgressUpdate, ProgressBufferSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, out)
	defer func() {
		close(progressChan)
		wg.Wait()
	}()

	step := s.opts.Interval + s.opts.Break
	for i := 0; i < s.opts.NumSamples; i++ {
		if err := s.Step(ctx, i == 0); err != nil {
			return err
		}
		select {
		case progressChan <- ProgressUpdate{Cycle: i + 1, Total: s.opts.NumSamples, Step: step}:
		default:
		}
	}
	return nil
}

// Aggregate reduces every buffer to its statistics and hands them to the
// observer.
func (s *Session) Aggregate() []stats.ProcMetrics {
	metrics := stats.FromBuffers(s.sampler.AllBuffers(), s.opts.TickRate)
	s.observer.Observe(metrics, s.sampler.Cycles(), s.sampler.Retired())
	return metrics
}

// RunOneshot collects the warm-up and prints a single table.
func (s *Session) RunOneshot(ctx context.Context, reporter ProgressReporter, presenter ResultPresenter, out io.Writer) error {
	if err := s.Collect(ctx, reporter, out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	presenter.PresentTable(s.Aggregate(), out)
	return nil
}

// RunLive collects the warm-up, then keeps sampling and redrawing the table
// in place until ctx is done or a cycle fails.
func (s *Session) RunLive(ctx context.Context, reporter ProgressReporter, presenter ResultPresenter, out io.Writer) error {
	if err := s.Collect(ctx, reporter, out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	for {
		lines := presenter.PresentTable(s.Aggregate(), out)
		if err := s.Step(ctx, false); err != nil {
			return err
		}
		presenter.ClearLines(lines, out)
	}
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
