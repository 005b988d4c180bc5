// Package orchestration drives a sampling session: the warm-up cycles that
// fill every buffer, the optional break between cycles and the live refresh
// loop. It decouples the sampling engine from presentation through the
// ProgressReporter, ResultPresenter and MetricsObserver interfaces.
package orchestration
