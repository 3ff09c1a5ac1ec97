// Package process terminates browser process trees that did not exit on
// their own.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID rejects PIDs that would address the caller's own process
// group or every process.
var ErrInvalidPID = errors.New("invalid process id")

// KillProcessGroup kills pid and all its children. Only the PID is
// checked; a process that already exited is not an error the caller can
// act on, so the kill itself is best-effort.
func KillProcessGroup(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	killTree(pid)
	return nil
}
