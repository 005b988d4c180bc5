package procfs

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"

	promfs "github.com/prometheus/procfs"

	apperrors "github.com/agbru/loadtimer/internal/errors"
)

// DefaultRoot is the proc mount point used by NewReader.
const DefaultRoot = "/proc"

// ID identifies a counter source: a process when TID is zero, otherwise one
// of its threads.
type ID struct {
	PID int
	TID int
}

// Process returns the ID of a whole process.
func Process(pid int) ID { return ID{PID: pid} }

// Thread returns the ID of a thread of pid.
func Thread(pid, tid int) ID { return ID{PID: pid, TID: tid} }

// IsThread reports whether id refers to a thread.
func (id ID) IsThread() bool { return id.TID != 0 }

func (id ID) String() string {
	if id.IsThread() {
		return fmt.Sprintf("%d/%d", id.PID, id.TID)
	}
	return strconv.Itoa(id.PID)
}

// Counters is one raw reading of accumulated CPU time, in clock ticks.
type Counters struct {
	User   int64
	System int64
}

// Total returns User + System.
func (c Counters) Total() int64 { return c.User + c.System }

// Sub returns the field-wise difference c - prev.
func (c Counters) Sub(prev Counters) Counters {
	return Counters{User: c.User - prev.User, System: c.System - prev.System}
}

// Reader reads counters from a proc filesystem.
type Reader struct {
	fs  promfs.FS
	err error
}

// NewReader returns a Reader over the host's /proc. If the mount cannot be
// opened every read fails with ErrSourceUnavailable.
func NewReader() *Reader {
	r, err := NewReaderAt(DefaultRoot)
	if err != nil {
		return &Reader{err: err}
	}
	return r
}

// NewReaderAt returns a Reader over root, which must be laid out like /proc.
func NewReaderAt(root string) (*Reader, error) {
	pfs, err := promfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open proc mount %s: %w: %w", root, apperrors.ErrSourceUnavailable, err)
	}
	return &Reader{fs: pfs}, nil
}

// ReadCounters returns the current user and system time of id.
func (r *Reader) ReadCounters(id ID) (Counters, error) {
	if r.err != nil {
		return Counters{}, fmt.Errorf("%s: %w: %w", id, apperrors.ErrSourceUnavailable, r.err)
	}
	var (
		proc promfs.Proc
		err  error
	)
	if id.IsThread() {
		proc, err = r.fs.Thread(id.PID, id.TID)
	} else {
		proc, err = r.fs.Proc(id.PID)
	}
	if err != nil {
		return Counters{}, classify(id, err)
	}
	stat, err := proc.Stat()
	if err != nil {
		return Counters{}, classify(id, err)
	}
	return Counters{User: int64(stat.UTime), System: int64(stat.STime)}, nil
}

// ListThreads returns the ids of the live threads of pid in ascending order.
// The main thread, whose tid equals pid, is included.
func (r *Reader) ListThreads(pid int) ([]int, error) {
	if r.err != nil {
		return nil, fmt.Errorf("%d: %w: %w", pid, apperrors.ErrSourceUnavailable, r.err)
	}
	threads, err := r.fs.AllThreads(pid)
	if err != nil {
		return nil, classify(Process(pid), err)
	}
	tids := make([]int, 0, len(threads))
	for _, t := range threads {
		if t.PID > 0 {
			tids = append(tids, t.PID)
		}
	}
	sort.Ints(tids)
	return tids, nil
}

// classify maps proc errors to the sampling error taxonomy. A record that
// exists but cannot be read as a stat line is malformed.
func classify(id ID, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist) || isExited(err):
		return fmt.Errorf("%s: %w: %w", id, apperrors.ErrSourceUnavailable, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s: %w", id, err)
	default:
		return fmt.Errorf("%s: %w: %w", id, apperrors.ErrMalformedSource, err)
	}
}
