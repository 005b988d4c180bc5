// Package logging provides a unified logging interface for loadtimer.
// It abstracts the underlying logging implementation, allowing consistent logging
// across the sampler, the application shell and the metrics server.
package logging
