// Package metrics reports the profiler's own footprint, shown next to the
// measured targets so that its overhead stays visible.
package metrics

import (
	"fmt"
	"runtime"
)

// SelfUsage holds a point-in-time reading of this process's runtime.
type SelfUsage struct {
	HeapAlloc    uint64 // bytes in use by live objects
	HeapSys      uint64 // bytes obtained from the OS for the heap
	NumGC        uint32
	PauseTotalNs uint64
	Goroutines   int
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct {
	read func(*runtime.MemStats)
}

// NewMemoryCollector creates a collector backed by runtime.ReadMemStats.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{read: runtime.ReadMemStats}
}

// Snapshot reads the current statistics.
func (mc *MemoryCollector) Snapshot() SelfUsage {
	var m runtime.MemStats
	mc.read(&m)
	return SelfUsage{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// String renders the reading as "heap 1.2 MB / 7.5 MB, gc 3".
func (u SelfUsage) String() string {
	return fmt.Sprintf("heap %s / %s, gc %d", FormatBytes(u.HeapAlloc), FormatBytes(u.HeapSys), u.NumGC)
}

// FormatBytes renders b with a binary unit suffix.
func FormatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
