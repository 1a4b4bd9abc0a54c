package profiler

import "time"

// Clock supplies the timestamps used for every measurement.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now, which carries a monotonic reading.
func SystemClock() Clock { return systemClock{} }
