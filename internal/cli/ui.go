package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/loadtimer/internal/format"
	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 20
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar and ETA while the
// warm-up cycles run. It returns when progressChan is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(" Sampling... " + progressBar(0, ProgressBarWidth))
	s.Start()
	defer s.Stop()

	for update := range progressChan {
		s.UpdateSuffix(progressSuffix(update))
	}
}

func progressSuffix(u orchestration.ProgressUpdate) string {
	suffix := fmt.Sprintf(" Sampling %d/%d %s%s%s",
		u.Cycle, u.Total, ui.ColorAccent(), progressBar(u.Fraction(), ProgressBarWidth), ui.ColorReset())
	if eta := u.ETA(); eta > 0 {
		suffix += " ETA " + format.FormatExecutionDuration(eta)
	}
	return suffix
}

// progressBar renders progress in [0, 1] as a bar of length characters.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
