package profiler

import (
	"slices"
	"time"
)

// TimerStat is the average of one user timer.
type TimerStat struct {
	Name    string
	Average time.Duration
	Hits    int
}

// CheckpointStat is the average time from the start of an iteration to a checkpoint.
type CheckpointStat struct {
	Name    string
	Average time.Duration
	Hits    int
}

// MemoryStat is the average memory reading at a mark, in bytes.
type MemoryStat struct {
	Name    string
	Current float64
	Real    float64
	Hits    int
}

// TestResult holds the averaged measurements of one test.
//
// Every sum is divided by Iterations, including keys that were not recorded on every
// iteration; Hits tells how many times a key was actually recorded.
type TestResult struct {
	Name        string
	Iterations  int
	Timers      []TimerStat
	// Total is the tare-corrected average of the implicit total timer; an iteration
	// cheaper than the tare contributes zero.
	Total       time.Duration
	Checkpoints []CheckpointStat
	Memory      []MemoryStat
}

// Timer returns the average of the named user timer.
func (r TestResult) Timer(name string) (time.Duration, bool) {
	for _, t := range r.Timers {
		if t.Name == name {
			return t.Average, true
		}
	}
	return 0, false
}

// Checkpoint returns the average of the named checkpoint.
func (r TestResult) Checkpoint(name string) (time.Duration, bool) {
	for _, c := range r.Checkpoints {
		if c.Name == name {
			return c.Average, true
		}
	}
	return 0, false
}

// MemoryAt returns the averaged memory reading of the named mark.
func (r TestResult) MemoryAt(name string) (MemoryStat, bool) {
	for _, m := range r.Memory {
		if m.Name == name {
			return m, true
		}
	}
	return MemoryStat{}, false
}

// TimerMap returns every timer average by name, with the total under TotalName.
func (r TestResult) TimerMap() map[string]time.Duration {
	out := make(map[string]time.Duration, len(r.Timers)+1)
	for _, t := range r.Timers {
		out[t.Name] = t.Average
	}
	out[TotalName] = r.Total
	return out
}

func (r TestResult) clone() TestResult {
	r.Timers = slices.Clone(r.Timers)
	r.Checkpoints = slices.Clone(r.Checkpoints)
	r.Memory = slices.Clone(r.Memory)
	return r
}

// average divides every sum in the bucket by iterations. The total timer is moved
// out of the marker list last.
func (b *bucket) average(name string, iterations int) TestResult {
	n := time.Duration(iterations)
	result := TestResult{Name: name, Iterations: iterations}

	for _, m := range b.timerOrder {
		s := b.timers[m]
		result.Timers = append(result.Timers, TimerStat{Name: m.Name(), Average: s.total / n, Hits: s.hits})
	}

	for _, cp := range b.checkpointOrder {
		s := b.checkpoints[cp]
		result.Checkpoints = append(result.Checkpoints, CheckpointStat{Name: cp, Average: s.total / n, Hits: s.hits})
	}

	for _, mark := range b.memoryOrder {
		s := b.memory[mark]
		result.Memory = append(result.Memory, MemoryStat{
			Name:    mark,
			Current: float64(s.current) / float64(iterations),
			Real:    float64(s.real) / float64(iterations),
			Hits:    s.hits,
		})
	}

	if total, ok := b.timers[TotalMarker]; ok {
		result.Total = total.total / n
	}
	return result
}

// Results returns a copy of every completed test result keyed by test name.
func (p *Profiler) Results() map[string]TestResult {
	out := make(map[string]TestResult, len(p.results))
	for name, r := range p.results {
		out[name] = r.clone()
	}
	return out
}

// Result returns the result of a single test.
func (p *Profiler) Result(name string) (TestResult, bool) {
	r, ok := p.results[name]
	if !ok {
		return TestResult{}, false
	}
	return r.clone(), true
}

// OrderedResults returns completed results in run order.
func (p *Profiler) OrderedResults() []TestResult {
	out := make([]TestResult, 0, len(p.done))
	for _, name := range p.done {
		out = append(out, p.results[name].clone())
	}
	return out
}
