//go:build unix

package procfs

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isExited reports errors the kernel returns for a task that exited while
// its proc entry was being read.
func isExited(err error) bool {
	return errors.Is(err, unix.ESRCH)
}
