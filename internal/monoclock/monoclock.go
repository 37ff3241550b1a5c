// Package monoclock reads the kernel's monotonic clock directly instead of
// going through time.Now(), so render-loop pacing and capture timestamps
// aren't exposed to wall-clock adjustments (NTP steps, manual clock changes)
// mid-session.
package monoclock

import (
	"time"

	"golang.org/x/sys/unix"
)

// Now returns elapsed time since an arbitrary, unspecified epoch, suitable
// only for measuring durations between two calls - never for display.
func Now() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec), nil
}
