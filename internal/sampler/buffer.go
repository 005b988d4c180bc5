package sampler

import (
	"fmt"
	"time"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
)

// IntervalSample is the counter growth observed over one sampling interval.
type IntervalSample struct {
	Delta    RawCounters
	Duration time.Duration
}

// Seconds returns the interval length in fractional seconds.
func (s IntervalSample) Seconds() float64 {
	return s.Duration.Seconds()
}

// Buffer is a fixed-capacity ring of IntervalSamples for a single entity.
// It always holds a valid last reading: creation fails if the seed read fails.
type Buffer struct {
	id   procfs.ID
	name string
	s    *settings

	last       RawCounters
	baselineAt time.Time

	// ring storage, oldest entry at head
	data  []IntervalSample
	head  int
	count int

	regressions int
}

func newBuffer(id procfs.ID, name string, s *settings) (*Buffer, error) {
	if s.capacity <= 0 {
		return nil, apperrors.ValidationError{
			Field:   "capacity",
			Message: fmt.Sprintf("must be positive, got %d", s.capacity),
		}
	}
	b := &Buffer{
		id:   id,
		name: name,
		s:    s,
		data: make([]IntervalSample, s.capacity),
	}
	if err := b.Rebase(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBuffer creates a Buffer for id and seeds it with one synchronous read.
func NewBuffer(src CounterSource, id procfs.ID, capacity int, opts ...Option) (*Buffer, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	s.source = src
	s.capacity = capacity
	return newBuffer(id, id.String(), s)
}

// ID returns the entity this buffer tracks.
func (b *Buffer) ID() procfs.ID { return b.id }

// Name returns the display name.
func (b *Buffer) Name() string { return b.name }

// Capacity returns the maximum number of retained samples.
func (b *Buffer) Capacity() int { return len(b.data) }

// Len returns the number of retained samples.
func (b *Buffer) Len() int { return b.count }

// Last returns the most recent raw reading.
func (b *Buffer) Last() RawCounters { return b.last }

// Regressions returns how many readings went backwards and were clamped.
func (b *Buffer) Regressions() int { return b.regressions }

// History returns a copy of the retained samples, oldest first.
func (b *Buffer) History() []IntervalSample {
	out := make([]IntervalSample, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.data[(b.head+i)%len(b.data)]
	}
	return out
}

// Sample reads the counters again and appends the growth since the previous
// reading. The duration runs from cycleStart, or from the last baseline read
// if that is later. On error the buffer is left untouched.
func (b *Buffer) Sample(cycleStart time.Time) error {
	cur, err := b.s.source.ReadCounters(b.id)
	if err != nil {
		return err
	}
	now := b.s.clock.Now()

	delta := cur.Sub(b.last)
	if delta.User < 0 || delta.System < 0 {
		b.regressions++
		b.s.logger.Debug("counter regression clamped",
			logging.String("entity", b.id.String()),
			logging.Int("regressions", b.regressions))
		delta.User = max(delta.User, 0)
		delta.System = max(delta.System, 0)
	}

	start := cycleStart
	if b.baselineAt.After(start) {
		start = b.baselineAt
	}
	b.push(IntervalSample{Delta: delta, Duration: max(now.Sub(start), 0)})
	b.last = cur
	return nil
}

// Rebase replaces the last reading with a fresh one without appending a
// sample, so that growth before this point is never attributed to an interval.
func (b *Buffer) Rebase() error {
	cur, err := b.s.source.ReadCounters(b.id)
	if err != nil {
		return err
	}
	b.last = cur
	b.baselineAt = b.s.clock.Now()
	return nil
}

func (b *Buffer) push(v IntervalSample) {
	if b.count < len(b.data) {
		b.data[(b.head+b.count)%len(b.data)] = v
		b.count++
		return
	}
	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
}
