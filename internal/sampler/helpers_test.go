package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/procfs"
)

// fakeSource is an in-memory CounterSource. Entities without counters are
// reported as gone.
type fakeSource struct {
	mu       sync.Mutex
	counters map[procfs.ID]procfs.Counters
	errs     map[procfs.ID]error
	threads  map[int][]int
	reads    int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		counters: make(map[procfs.ID]procfs.Counters),
		errs:     make(map[procfs.ID]error),
		threads:  make(map[int][]int),
	}
}

func (f *fakeSource) set(id procfs.ID, user, system int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[id] = procfs.Counters{User: user, System: system}
	if id.IsThread() && !containsInt(f.threads[id.PID], id.TID) {
		f.threads[id.PID] = append(f.threads[id.PID], id.TID)
	}
}

func (f *fakeSource) add(id procfs.ID, user, system int64) {
	f.mu.Lock()
	c := f.counters[id]
	f.mu.Unlock()
	f.set(id, c.User+user, c.System+system)
}

// kill removes the entity and, for threads, drops it from the task list.
func (f *fakeSource) kill(id procfs.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counters, id)
	if id.IsThread() {
		kept := f.threads[id.PID][:0]
		for _, tid := range f.threads[id.PID] {
			if tid != id.TID {
				kept = append(kept, tid)
			}
		}
		f.threads[id.PID] = kept
	}
}

// fail makes reads of id return err while leaving it listed.
func (f *fakeSource) fail(id procfs.ID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id] = err
}

func (f *fakeSource) ReadCounters(id procfs.ID) (procfs.Counters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if err, ok := f.errs[id]; ok {
		return procfs.Counters{}, err
	}
	c, ok := f.counters[id]
	if !ok {
		return procfs.Counters{}, fmt.Errorf("%s: %w", id, apperrors.ErrSourceUnavailable)
	}
	return c, nil
}

func (f *fakeSource) ListThreads(pid int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.counters[procfs.Process(pid)]; !ok {
		return nil, fmt.Errorf("pid %d: %w", pid, apperrors.ErrSourceUnavailable)
	}
	out := append([]int{pid}, f.threads[pid]...)
	return out, nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// fakeClock only moves when told to or when slept on.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func testSettings(src CounterSource, clock Clock, capacity int, threads bool) *settings {
	s := defaultSettings()
	s.source = src
	s.clock = clock
	s.capacity = capacity
	s.trackThreads = threads
	return s
}
