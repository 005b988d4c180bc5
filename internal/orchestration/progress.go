package orchestration

import "time"

// ProgressUpdate reports one finished warm-up cycle.
type ProgressUpdate struct {
	// Cycle is the 1-based number of the cycle that just finished.
	Cycle int
	// Total is the number of warm-up cycles.
	Total int
	// Step is the wall time of one cycle including the break.
	Step time.Duration
}

// Fraction returns the completed share of the warm-up in [0, 1].
func (u ProgressUpdate) Fraction() float64 {
	if u.Total <= 0 {
		return 1
	}
	return min(float64(u.Cycle)/float64(u.Total), 1)
}

// ETA estimates the time left until the warm-up completes.
func (u ProgressUpdate) ETA() time.Duration {
	return time.Duration(max(u.Total-u.Cycle, 0)) * u.Step
}
