package stats

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/loadtimer/internal/procfs"
	"github.com/agbru/loadtimer/internal/sampler"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestFromValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		in         []float64
		mean, sdev float64
	}{
		{"single", []float64{4}, 4, 0},
		{"constant", []float64{3, 3, 3}, 3, 0},
		{"population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
		{"pair", []float64{10, 20}, 15, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FromValues(tt.in)
			if !approx(got.Mean, tt.mean) || !approx(got.StdDev, tt.sdev) {
				t.Errorf("FromValues(%v) = %+v, want mean %v stddev %v", tt.in, got, tt.mean, tt.sdev)
			}
		})
	}
}

func TestFromValues_EmptyIsNaN(t *testing.T) {
	t.Parallel()
	got := FromValues(nil)
	if !math.IsNaN(got.Mean) || !math.IsNaN(got.StdDev) {
		t.Errorf("FromValues(nil) = %+v, want NaN", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	if got := Percent(100, 1, 100); got != 100 {
		t.Errorf("Percent = %v, want 100", got)
	}
	if got := Percent(50, 2, 100); got != 25 {
		t.Errorf("Percent = %v, want 25", got)
	}
	if got := Percent(5, 0, 100); !math.IsNaN(got) {
		t.Errorf("Percent over zero seconds = %v, want NaN", got)
	}
}

func TestFromSamples(t *testing.T) {
	t.Parallel()
	history := []sampler.IntervalSample{
		{Delta: sampler.RawCounters{User: 10, System: 10}, Duration: time.Second},
		{Delta: sampler.RawCounters{User: 15, System: 0}, Duration: time.Second},
		{Delta: sampler.RawCounters{User: 5, System: 15}, Duration: 2 * time.Second},
	}
	m := FromSamples("app (7)", 7, 0, history, 100)

	if m.Samples != 3 {
		t.Errorf("Samples = %d, want 3", m.Samples)
	}
	if !approx(m.User.Mean, 10) || !approx(m.System.Mean, 25.0/3) || !approx(m.Total.Mean, 55.0/3) {
		t.Errorf("means = user %v system %v total %v", m.User.Mean, m.System.Mean, m.Total.Mean)
	}
	// 55 ticks over 4 seconds at 100 Hz.
	if !approx(m.CPUUsage.Mean, 13.75) {
		t.Errorf("CPUUsage.Mean = %v, want 13.75", m.CPUUsage.Mean)
	}
	// Per-interval percentages are 20, 15 and 10.
	if !approx(m.CPUUsage.StdDev, math.Sqrt(50.0/3)) {
		t.Errorf("CPUUsage.StdDev = %v, want %v", m.CPUUsage.StdDev, math.Sqrt(50.0/3))
	}
}

func TestFromSamples_Empty(t *testing.T) {
	t.Parallel()
	m := FromSamples("idle", 1, 0, nil, 100)
	for name, v := range map[string]float64{
		"cpu mean":   m.CPUUsage.Mean,
		"cpu stddev": m.CPUUsage.StdDev,
		"total mean": m.Total.Mean,
		"user mean":  m.User.Mean,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
}

type staticSource struct{ c procfs.Counters }

func (s *staticSource) ReadCounters(procfs.ID) (procfs.Counters, error) { return s.c, nil }
func (s *staticSource) ListThreads(pid int) ([]int, error)              { return []int{pid}, nil }

func TestFromBuffer(t *testing.T) {
	t.Parallel()
	src := &staticSource{c: procfs.Counters{User: 1, System: 1}}
	buf, err := sampler.NewBuffer(src, procfs.Thread(7, 9), 2)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	m := FromBuffer(buf, 100)
	if m.PID != 7 || m.TID != 9 || m.Samples != 0 || m.Name != "7/9" {
		t.Errorf("FromBuffer = %+v", m)
	}
	if got := FromBuffers([]*sampler.Buffer{buf, buf}, 100); len(got) != 2 {
		t.Errorf("len(FromBuffers) = %d, want 2", len(got))
	}
}

// TestConvergence_PropertyBased checks that constant growth of u user and s
// system ticks per second gives exact means and zero deviation.
func TestConvergence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("constant growth converges", prop.ForAll(
		func(u, s, secs, n int) bool {
			interval := time.Duration(secs) * time.Second
			history := make([]sampler.IntervalSample, n)
			for i := range history {
				history[i] = sampler.IntervalSample{
					Delta:    sampler.RawCounters{User: int64(u * secs), System: int64(s * secs)},
					Duration: interval,
				}
			}
			const tickRate = 100
			m := FromSamples("p", 1, 0, history, tickRate)
			return approx(m.Total.Mean, float64((u+s)*secs)) &&
				approx(m.CPUUsage.Mean, 100*float64(u+s)/tickRate) &&
				m.Total.StdDev < 1e-9 &&
				m.CPUUsage.StdDev < 1e-9
		},
		gen.IntRange(0, 400),
		gen.IntRange(0, 400),
		gen.IntRange(1, 30),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
