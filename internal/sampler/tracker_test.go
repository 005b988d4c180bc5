package sampler

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
	"github.com/agbru/loadtimer/internal/sampler/mocks"
)

func bufferIDs(bufs []*Buffer) []procfs.ID {
	ids := make([]procfs.ID, len(bufs))
	for i, b := range bufs {
		ids[i] = b.ID()
	}
	return ids
}

func TestTracker_ProcessOnlyNeverListsThreads(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockCounterSource(ctrl)
	src.EXPECT().ReadCounters(procfs.Process(7)).Return(procfs.Counters{User: 1, System: 1}, nil).Times(2)

	tr, err := newTracker(7, testSettings(src, newFakeClock(), 2, false))
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}
	if err := tr.Sample(time.Now()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := len(tr.Buffers()); got != 1 {
		t.Errorf("len(Buffers) = %d, want 1", got)
	}
}

func TestTracker_Create(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.set(procfs.Process(7), 10, 10)
	src.set(procfs.Thread(7, 9), 1, 1)
	src.set(procfs.Thread(7, 8), 1, 1)
	// Listed but exits before its seed read.
	src.set(procfs.Thread(7, 11), 1, 1)
	src.mu.Lock()
	delete(src.counters, procfs.Thread(7, 11))
	src.mu.Unlock()

	tr, err := newTracker(7, testSettings(src, newFakeClock(), 2, true))
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}

	want := []procfs.ID{procfs.Process(7), procfs.Thread(7, 8), procfs.Thread(7, 9)}
	if got := bufferIDs(tr.Buffers()); !reflect.DeepEqual(got, want) {
		t.Errorf("Buffers = %v, want %v", got, want)
	}
	if got := tr.Buffers()[1].Name(); got != "  ↳ 8" {
		t.Errorf("thread name = %q", got)
	}
	if !reflect.DeepEqual(tr.ThreadIDs(), []int{8, 9}) {
		t.Errorf("ThreadIDs = %v", tr.ThreadIDs())
	}
}

func TestTracker_CreateFails(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		setup  func(*fakeSource)
		target error
	}{
		{
			name:   "process unreadable",
			setup:  func(*fakeSource) {},
			target: apperrors.ErrSourceUnavailable,
		},
		{
			name: "malformed process record",
			setup: func(f *fakeSource) {
				f.set(procfs.Process(7), 1, 1)
				f.fail(procfs.Process(7), apperrors.ErrMalformedSource)
			},
			target: apperrors.ErrMalformedSource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := newFakeSource()
			tt.setup(src)
			_, err := newTracker(7, testSettings(src, newFakeClock(), 2, true))
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestTracker_ProcessFailureEscalates(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.set(procfs.Process(7), 10, 10)
	src.set(procfs.Thread(7, 8), 1, 1)

	tr, err := newTracker(7, testSettings(src, newFakeClock(), 2, true))
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}
	src.kill(procfs.Process(7))
	if err := tr.Sample(time.Now()); !errors.Is(err, apperrors.ErrSourceUnavailable) {
		t.Fatalf("Sample error = %v, want ErrSourceUnavailable", err)
	}
	if tr.Buffers()[1].Len() != 0 {
		t.Error("threads were sampled after the process failed")
	}
}

func TestTracker_ThreadChurn(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	src := newFakeSource()
	clock := newFakeClock()
	s := testSettings(src, clock, 4, true)
	s.logger = logging.NewStdLoggerAdapter(log.New(&logs, "", 0))

	src.set(procfs.Process(7), 10, 10)
	src.set(procfs.Thread(7, 8), 1, 1)
	tr, err := newTracker(7, s)
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}

	cycle := func() {
		t.Helper()
		start := clock.Now()
		clock.Advance(time.Second)
		src.add(procfs.Process(7), 2, 2)
		if err := tr.Sample(start); err != nil {
			t.Fatalf("Sample: %v", err)
		}
	}

	cycle()
	src.set(procfs.Thread(7, 9), 5, 5)
	cycle()

	thread := func(tid int) *Buffer {
		for _, b := range tr.Buffers() {
			if b.ID().TID == tid {
				return b
			}
		}
		return nil
	}

	if b := thread(9); b == nil || b.Len() != 0 {
		t.Fatalf("new thread should be tracked with no samples yet, got %v", b)
	}
	if got := thread(8).Len(); got != 2 {
		t.Errorf("thread 8 Len = %d, want 2", got)
	}

	src.kill(procfs.Thread(7, 8))
	src.add(procfs.Thread(7, 9), 3, 0)
	cycle()

	if thread(8) != nil {
		t.Error("exited thread 8 was not retired")
	}
	b9 := thread(9)
	if b9.Len() != 1 {
		t.Fatalf("thread 9 Len = %d, want 1", b9.Len())
	}
	if got, want := b9.History()[0].Delta, (RawCounters{User: 3}); got != want {
		t.Errorf("thread 9 delta = %+v, want %+v", got, want)
	}
	// Discovered at t=2s, sampled at t=3s; the tracker dates from t=0.
	if got := b9.History()[0].Duration; got != time.Second {
		t.Errorf("thread 9 duration = %v, want %v", got, time.Second)
	}
	if tr.Retired() != 1 {
		t.Errorf("Retired = %d, want 1", tr.Retired())
	}
	if tr.Buffers()[0].Len() != 3 {
		t.Errorf("process Len = %d, want 3", tr.Buffers()[0].Len())
	}

	out := logs.String()
	for _, want := range []string{"[DEBUG] thread discovered pid=7 tid=9", "[DEBUG] thread retired pid=7 tid=8"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestTracker_UnreadableThreadsAreDropped(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	src := newFakeSource()
	s := testSettings(src, newFakeClock(), 2, true)
	s.logger = logging.NewStdLoggerAdapter(log.New(&logs, "", 0))

	src.set(procfs.Process(7), 10, 10)
	src.set(procfs.Thread(7, 8), 1, 1)
	src.set(procfs.Thread(7, 9), 1, 1)
	src.fail(procfs.Thread(7, 9), fmt.Errorf("%w: 3 fields", apperrors.ErrMalformedSource))

	tr, err := newTracker(7, s)
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}
	if !reflect.DeepEqual(tr.ThreadIDs(), []int{8}) {
		t.Fatalf("ThreadIDs after create = %v, want [8]", tr.ThreadIDs())
	}

	src.fail(procfs.Thread(7, 8), fmt.Errorf("%w: 3 fields", apperrors.ErrMalformedSource))
	src.set(procfs.Thread(7, 10), 1, 1)
	src.fail(procfs.Thread(7, 10), fmt.Errorf("%w: short", apperrors.ErrMalformedSource))
	if err := tr.Sample(time.Now()); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := tr.ThreadIDs(); len(got) != 0 {
		t.Errorf("ThreadIDs = %v, want none", got)
	}
	if tr.Retired() != 1 {
		t.Errorf("Retired = %d, want 1", tr.Retired())
	}
	if !strings.Contains(logs.String(), "thread unreadable pid=7 tid=9") {
		t.Errorf("log output missing unreadable thread:\n%s", logs.String())
	}
}

func TestTracker_RebaseRetiresExitedThreads(t *testing.T) {
	t.Parallel()
	src := newFakeSource()
	src.set(procfs.Process(7), 10, 10)
	src.set(procfs.Thread(7, 8), 1, 1)
	src.set(procfs.Thread(7, 9), 1, 1)

	tr, err := newTracker(7, testSettings(src, newFakeClock(), 2, true))
	if err != nil {
		t.Fatalf("newTracker: %v", err)
	}
	src.kill(procfs.Thread(7, 9))
	src.set(procfs.Thread(7, 8), 40, 40)
	if err := tr.Rebase(); err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if !reflect.DeepEqual(tr.ThreadIDs(), []int{8}) {
		t.Errorf("ThreadIDs = %v, want [8]", tr.ThreadIDs())
	}
	if got, want := tr.Buffers()[1].Last(), (RawCounters{User: 40, System: 40}); got != want {
		t.Errorf("Last = %+v, want %+v", got, want)
	}

	src.kill(procfs.Process(7))
	if err := tr.Rebase(); !errors.Is(err, apperrors.ErrSourceUnavailable) {
		t.Errorf("Rebase error = %v, want ErrSourceUnavailable", err)
	}
}
