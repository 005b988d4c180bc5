// Package procfs reads per-process and per-thread CPU accounting counters
// from a proc filesystem through github.com/prometheus/procfs.
//
// Records are keyed by pid for a process (<pid>/stat) or by pid and tid for
// a thread (<pid>/task/<tid>/stat); user and system time are the fields at
// zero-based offsets 13 and 14. NewReaderAt accepts any directory laid out
// like /proc, which is how the tests supply fixtures. Failures are reported
// with apperrors.ErrSourceUnavailable when the entity is gone and
// apperrors.ErrMalformedSource when the record cannot be parsed.
package procfs
