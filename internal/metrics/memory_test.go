package metrics

import (
	"runtime"
	"testing"
)

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.HeapSys == 0 {
		t.Error("HeapSys should be > 0")
	}
	if snap.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want >= 1", snap.Goroutines)
	}
}

func TestMemoryCollector_StubbedReader(t *testing.T) {
	t.Parallel()

	mc := &MemoryCollector{read: func(m *runtime.MemStats) {
		m.HeapAlloc = 3 << 20
		m.HeapSys = 8 << 20
		m.NumGC = 4
	}}
	got := mc.Snapshot().String()
	if want := "heap 3.0 MB / 8.0 MB, gc 4"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
		{2 << 30, "2.0 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := FormatBytes(tt.in); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
