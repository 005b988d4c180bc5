// Package format holds the number and duration formatting shared by the
// table output and the dashboard.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds below a millisecond, milliseconds below a second,
// and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Second).String()
}

// FormatSeconds renders a sampling interval given in seconds, e.g. "10s" or
// "0.5s".
func FormatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', -1, 64) + "s"
}

// FormatFixed renders v with two decimals. NaN, which marks a statistic with
// no samples yet, renders as "-".
func FormatFixed(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercent renders a percentage with two decimals and a percent sign.
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return FormatFixed(v) + "%"
}
