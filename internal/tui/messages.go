package tui

import (
	"time"

	"github.com/agbru/loadtimer/internal/metrics"
	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/stats"
	"github.com/agbru/loadtimer/internal/sysmon"
)

// WarmupMsg reports a finished warm-up cycle.
type WarmupMsg struct {
	Update orchestration.ProgressUpdate
}

// SampleMsg carries the aggregates computed after a cycle.
type SampleMsg struct {
	Metrics []stats.ProcMetrics
	Cycles  int
	Retired int
}

// SessionDoneMsg is sent when the sampling session returns.
type SessionDoneMsg struct {
	Err error
}

// TickMsg drives the periodic refresh of host statistics.
type TickMsg time.Time

// SysStatsMsg carries a host-wide snapshot.
type SysStatsMsg struct {
	Stats sysmon.Stats
}

// SelfUsageMsg carries the profiler's own runtime footprint.
type SelfUsageMsg struct {
	Usage metrics.SelfUsage
}

// ContextCancelledMsg is sent when the run context is done.
type ContextCancelledMsg struct {
	Err error
}
