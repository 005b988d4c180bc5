// Package sampler is the sampling engine of loadtimer. It turns raw CPU
// accounting counters into bounded per-entity histories of interval samples.
//
// The pieces, leaves first:
//
//   - Buffer holds the rolling history of one process or thread together with
//     the last raw reading, and converts each new reading into an
//     IntervalSample.
//   - Tracker owns the Buffer of one monitored process and, when thread
//     tracking is on, a Buffer per thread. Each cycle it picks up newly
//     spawned threads and retires the ones that exited.
//   - Coordinator owns the Trackers, keeps the shared cadence and fans a
//     single sampling tick out to every entity.
//
// All state is owned by exactly one Tracker and mutated from the goroutine
// that calls Coordinator.Sample. With WithParallel each Tracker is sampled
// on its own goroutine, but a Tracker and its Buffers are still only touched
// by that goroutine for the duration of the cycle.
package sampler
