//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

package sampler

import (
	"context"
	"strconv"
	"time"

	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
)

// RawCounters is one raw reading of accumulated user and system ticks.
type RawCounters = procfs.Counters

// CounterSource reads raw counters and enumerates threads.
// procfs.Reader is the production implementation.
type CounterSource interface {
	// ReadCounters returns the current counters of id.
	ReadCounters(id procfs.ID) (procfs.Counters, error)
	// ListThreads returns the ids of the live threads of pid.
	ListThreads(pid int) ([]int, error)
}

// Clock abstracts wall-clock reads and the cadence sleep.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// settings is shared, read-only configuration handed from the Coordinator to
// its Trackers and Buffers.
type settings struct {
	source       CounterSource
	clock        Clock
	logger       logging.Logger
	namer        func(pid int) string
	capacity     int
	trackThreads bool
	parallel     bool
}

func defaultSettings() *settings {
	return &settings{
		clock:  SystemClock(),
		logger: logging.Nop(),
		namer:  strconv.Itoa,
	}
}

// Option configures a Coordinator.
type Option func(*settings)

// WithSource sets the counter source. Defaults to the host's /proc.
func WithSource(src CounterSource) Option {
	return func(s *settings) { s.source = src }
}

// WithClock sets the clock used for the cadence and interval durations.
func WithClock(c Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithNamer sets the function that turns a pid into a display name.
func WithNamer(f func(pid int) string) Option {
	return func(s *settings) { s.namer = f }
}

// WithParallel samples trackers concurrently within a cycle.
func WithParallel(enabled bool) Option {
	return func(s *settings) { s.parallel = enabled }
}
