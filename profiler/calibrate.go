package profiler

import "time"

// calibrationRuns is how many empty calls are averaged into the tare.
const calibrationRuns = 100

// tareWork is called through a variable so the call is not optimized away.
var tareWork Work = func(*RunContext) error { return nil }

// calibrate measures the mean cost of timing an empty unit of work.
func (p *Profiler) calibrate() time.Duration {
	var sum time.Duration
	for i := 0; i < calibrationRuns; i++ {
		start := p.clock.Now()
		_ = tareWork(nil)
		sum += p.clock.Now().Sub(start)
	}
	return sum / calibrationRuns
}
