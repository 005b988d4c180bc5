// Package stats reduces sample histories to mean and standard deviation
// aggregates.
package stats

import (
	"math"

	"github.com/agbru/loadtimer/internal/sampler"
)

// MeanWithStdDev is a mean and a population standard deviation computed from
// the same values. Both are NaN for an empty input.
type MeanWithStdDev struct {
	Mean   float64
	StdDev float64
}

// FromValues computes the mean and population standard deviation of xs.
func FromValues(xs []float64) MeanWithStdDev {
	if len(xs) == 0 {
		return MeanWithStdDev{Mean: math.NaN(), StdDev: math.NaN()}
	}
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return MeanWithStdDev{Mean: mean, StdDev: math.Sqrt(sq / n)}
}

// ProcMetrics aggregates the retained history of one buffer.
type ProcMetrics struct {
	Name    string
	PID     int
	TID     int
	Samples int

	// CPUUsage is a percentage of one CPU. The mean divides the summed
	// ticks by the summed elapsed time; the stddev is taken over the
	// per-interval percentages.
	CPUUsage MeanWithStdDev
	Total    MeanWithStdDev
	User     MeanWithStdDev
	System   MeanWithStdDev
}

// FromBuffer computes the aggregates of buf. tickRate is the number of
// counter ticks per second.
func FromBuffer(buf *sampler.Buffer, tickRate float64) ProcMetrics {
	id := buf.ID()
	return FromSamples(buf.Name(), id.PID, id.TID, buf.History(), tickRate)
}

// FromSamples computes the aggregates of an explicit history.
func FromSamples(name string, pid, tid int, history []sampler.IntervalSample, tickRate float64) ProcMetrics {
	user := make([]float64, len(history))
	system := make([]float64, len(history))
	total := make([]float64, len(history))
	usage := make([]float64, 0, len(history))

	var ticks, secs float64
	for i, s := range history {
		user[i] = float64(s.Delta.User)
		system[i] = float64(s.Delta.System)
		total[i] = float64(s.Delta.Total())
		ticks += total[i]
		secs += s.Seconds()
		if s.Duration > 0 {
			usage = append(usage, Percent(total[i], s.Seconds(), tickRate))
		}
	}

	cpu := FromValues(usage)
	if len(history) == 0 {
		cpu.Mean = math.NaN()
	} else {
		cpu.Mean = Percent(ticks, secs, tickRate)
	}

	return ProcMetrics{
		Name:     name,
		PID:      pid,
		TID:      tid,
		Samples:  len(history),
		CPUUsage: cpu,
		Total:    FromValues(total),
		User:     FromValues(user),
		System:   FromValues(system),
	}
}

// Percent converts ticks consumed over secs seconds into a percentage of one
// CPU. A zero-length interval yields NaN.
func Percent(ticks, secs, tickRate float64) float64 {
	if secs <= 0 || tickRate <= 0 {
		return math.NaN()
	}
	return 100 * ticks / (tickRate * secs)
}

// FromBuffers aggregates every buffer in order.
func FromBuffers(bufs []*sampler.Buffer, tickRate float64) []ProcMetrics {
	out := make([]ProcMetrics, len(bufs))
	for i, b := range bufs {
		out[i] = FromBuffer(b, tickRate)
	}
	return out
}
