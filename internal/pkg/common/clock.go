package common

import (
	"time"
)

// Clock is the time source used for run-length tracking and latency
// sampling. Implementations must return readings carrying a monotonic
// component so that Sub/Since are immune to wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func NewSystemClock() Clock {
	return SystemClock{}
}

// Micros converts a duration to whole microseconds.
func Micros(d time.Duration) int64 {
	return int64(d / time.Microsecond)
}
