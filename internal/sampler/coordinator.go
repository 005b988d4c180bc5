package sampler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
)

const tracerName = "github.com/agbru/loadtimer/internal/sampler"

// Coordinator drives all trackers on a shared cadence. Each call to Sample
// waits until the target interval has elapsed since the end of the previous
// cycle, then samples every tracker in order.
type Coordinator struct {
	s        *settings
	trackers []*Tracker
	anchor   time.Time
	cycles   int
}

// New builds a tracker per pid. It fails on the first pid that cannot be
// read, and with ErrNoTargets when pids is empty.
func New(pids []int, capacity int, trackThreads bool, opts ...Option) (*Coordinator, error) {
	if len(pids) == 0 {
		return nil, apperrors.ErrNoTargets
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	s.capacity = capacity
	s.trackThreads = trackThreads
	if s.source == nil {
		s.source = procfs.NewReader()
	}

	c := &Coordinator{s: s, trackers: make([]*Tracker, 0, len(pids))}
	for _, pid := range pids {
		t, err := newTracker(pid, s)
		if err != nil {
			return nil, apperrors.TargetError{PID: pid, Cause: err}
		}
		c.trackers = append(c.trackers, t)
	}
	c.anchor = s.clock.Now()
	return c, nil
}

// Trackers returns the trackers in pid argument order.
func (c *Coordinator) Trackers() []*Tracker { return c.trackers }

// Cycles returns the number of completed sampling cycles.
func (c *Coordinator) Cycles() int { return c.cycles }

// AllBuffers returns every buffer, grouped by tracker in argument order.
func (c *Coordinator) AllBuffers() []*Buffer {
	var out []*Buffer
	for _, t := range c.trackers {
		out = append(out, t.Buffers()...)
	}
	return out
}

// Sample runs one cycle. It sleeps for whatever is left of interval since the
// last anchor, samples every tracker, then resets the anchor. The first
// tracker failure aborts the cycle and is returned as a TargetError.
// If ctx is done before the sleep completes nothing is sampled.
func (c *Coordinator) Sample(ctx context.Context, interval time.Duration) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sampler.cycle")
	span.SetAttributes(
		attribute.Int("cycle", c.cycles+1),
		attribute.Int("trackers", len(c.trackers)),
		attribute.Bool("parallel", c.s.parallel),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	wait := max(interval-c.s.clock.Now().Sub(c.anchor), 0)
	if err := c.s.clock.Sleep(ctx, wait); err != nil {
		return err
	}

	start := c.anchor
	if c.s.parallel {
		err = c.sampleParallel(start)
	} else {
		err = c.sampleSequential(start)
	}
	if err != nil {
		return err
	}

	c.anchor = c.s.clock.Now()
	c.cycles++
	c.s.logger.Debug("cycle complete",
		logging.Int("cycle", c.cycles),
		logging.Duration("slept", wait),
		logging.Int("entities", c.entityCount()))
	return nil
}

func (c *Coordinator) sampleSequential(start time.Time) error {
	for _, t := range c.trackers {
		if err := t.Sample(start); err != nil {
			return apperrors.TargetError{PID: t.PID(), Cause: err}
		}
	}
	return nil
}

func (c *Coordinator) sampleParallel(start time.Time) error {
	var g errgroup.Group
	for _, t := range c.trackers {
		g.Go(func() error {
			if err := t.Sample(start); err != nil {
				return apperrors.TargetError{PID: t.PID(), Cause: err}
			}
			return nil
		})
	}
	return g.Wait()
}

// Rebase refreshes every baseline without recording samples and resets the
// anchor. Growth that happened before the call is not attributed to the next
// interval.
func (c *Coordinator) Rebase() error {
	for _, t := range c.trackers {
		if err := t.Rebase(); err != nil {
			return apperrors.TargetError{PID: t.PID(), Cause: err}
		}
	}
	c.anchor = c.s.clock.Now()
	return nil
}

// Retired returns the number of thread buffers dropped across all trackers.
func (c *Coordinator) Retired() int {
	n := 0
	for _, t := range c.trackers {
		n += t.Retired()
	}
	return n
}

func (c *Coordinator) entityCount() int {
	n := 0
	for _, t := range c.trackers {
		n += 1 + len(t.threads)
	}
	return n
}
