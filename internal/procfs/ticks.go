package procfs

import (
	"fmt"

	"github.com/tklauser/go-sysconf"
)

// DefaultClockTicks is the USER_HZ value used by virtually every Linux build.
const DefaultClockTicks = 100

// ClockTicks returns the number of clock ticks per second (USER_HZ), the
// unit of the counters returned by ReadCounters. Call it once per run and
// pass the value to whatever converts ticks to seconds.
func ClockTicks() (int64, error) {
	hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve SC_CLK_TCK: %w", err)
	}
	if hz <= 0 {
		return 0, fmt.Errorf("invalid SC_CLK_TCK value %d", hz)
	}
	return hz, nil
}
