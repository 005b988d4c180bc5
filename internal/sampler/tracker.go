package sampler

import (
	"errors"
	"fmt"
	"slices"
	"time"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
)

// Tracker owns the buffers of one monitored process and, optionally, of its
// threads. Threads come and go between cycles; the process buffer does not.
type Tracker struct {
	pid     int
	s       *settings
	process *Buffer
	threads map[int]*Buffer
	retired int
}

func newTracker(pid int, s *settings) (*Tracker, error) {
	proc, err := newBuffer(procfs.Process(pid), s.namer(pid), s)
	if err != nil {
		return nil, err
	}
	t := &Tracker{
		pid:     pid,
		s:       s,
		process: proc,
		threads: make(map[int]*Buffer),
	}
	if !s.trackThreads {
		return t, nil
	}
	if _, err := t.discover(); err != nil {
		return nil, err
	}
	return t, nil
}

// PID returns the monitored process id.
func (t *Tracker) PID() int { return t.pid }

// Retired returns how many thread buffers have been dropped so far.
func (t *Tracker) Retired() int { return t.retired }

// ThreadIDs returns the tracked thread ids in ascending order.
func (t *Tracker) ThreadIDs() []int {
	ids := make([]int, 0, len(t.threads))
	for tid := range t.threads {
		ids = append(ids, tid)
	}
	slices.Sort(ids)
	return ids
}

// Buffers returns the process buffer followed by the thread buffers in tid
// order.
func (t *Tracker) Buffers() []*Buffer {
	out := make([]*Buffer, 0, 1+len(t.threads))
	out = append(out, t.process)
	for _, tid := range t.ThreadIDs() {
		out = append(out, t.threads[tid])
	}
	return out
}

// Sample takes one reading of the process and every known thread.
//
// A process failure is returned unchanged. Threads that appeared since the
// previous cycle get a buffer seeded now and their first sample on the next
// cycle. Threads that can no longer be read are dropped after the pass.
func (t *Tracker) Sample(cycleStart time.Time) error {
	if err := t.process.Sample(cycleStart); err != nil {
		return err
	}
	if !t.s.trackThreads {
		return nil
	}

	existing := t.ThreadIDs()
	if _, err := t.discover(); err != nil {
		return err
	}

	var gone []int
	for _, tid := range existing {
		if err := t.threads[tid].Sample(cycleStart); err != nil {
			t.threadFailed(tid, err)
			gone = append(gone, tid)
		}
	}
	t.retire(gone)
	return nil
}

// Rebase refreshes the last reading of every buffer without recording a
// sample. Threads that can no longer be read are dropped.
func (t *Tracker) Rebase() error {
	if err := t.process.Rebase(); err != nil {
		return err
	}
	var gone []int
	for _, tid := range t.ThreadIDs() {
		if err := t.threads[tid].Rebase(); err != nil {
			t.threadFailed(tid, err)
			gone = append(gone, tid)
		}
	}
	t.retire(gone)
	return nil
}

// discover adds a buffer for every live thread not yet tracked. The process
// itself is never tracked as a thread. Threads whose seed read fails are
// skipped.
func (t *Tracker) discover() (added []int, err error) {
	tids, err := t.s.source.ListThreads(t.pid)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	for _, tid := range tids {
		if tid == t.pid {
			continue
		}
		if _, ok := t.threads[tid]; ok {
			continue
		}
		buf, err := newBuffer(procfs.Thread(t.pid, tid), threadName(tid), t.s)
		if err != nil {
			t.threadFailed(tid, err)
			continue
		}
		t.threads[tid] = buf
		added = append(added, tid)
		t.s.logger.Debug("thread discovered",
			logging.Int("pid", t.pid),
			logging.Int("tid", tid))
	}
	return added, nil
}

// threadFailed records why a thread read failed. A thread that is gone is
// routine churn; anything else is logged with the cause.
func (t *Tracker) threadFailed(tid int, err error) {
	if errors.Is(err, apperrors.ErrSourceUnavailable) {
		return
	}
	t.s.logger.Debug("thread unreadable",
		logging.Int("pid", t.pid),
		logging.Int("tid", tid),
		logging.Err(err))
}

func (t *Tracker) retire(tids []int) {
	for _, tid := range tids {
		delete(t.threads, tid)
		t.retired++
		t.s.logger.Debug("thread retired",
			logging.Int("pid", t.pid),
			logging.Int("tid", tid))
	}
}

func threadName(tid int) string {
	return fmt.Sprintf("  ↳ %d", tid)
}
