package profiler

import (
	"fmt"
	"io"
	"os"
	"time"
)

type timerSample struct {
	start   time.Time
	started bool
	total   time.Duration
	hits    int
}

type checkpointSample struct {
	total time.Duration
	hits  int
}

type memorySample struct {
	current uint64
	real    uint64
	hits    int
}

// bucket holds the raw sums for one test. Order slices record first use.
type bucket struct {
	timers          map[Marker]*timerSample
	timerOrder      []Marker
	checkpoints     map[string]*checkpointSample
	checkpointOrder []string
	memory          map[string]*memorySample
	memoryOrder     []string
}

func newBucket() *bucket {
	return &bucket{
		timers:      make(map[Marker]*timerSample),
		checkpoints: make(map[string]*checkpointSample),
		memory:      make(map[string]*memorySample),
	}
}

// RunContext is handed to a unit of work and scopes instrumentation calls to the
// test and iteration being run. It is invalid once its test has finished.
type RunContext struct {
	p         *Profiler
	test      string
	iteration int
	bucket    *bucket
	active    bool
}

// Test returns the name of the running test.
func (rc *RunContext) Test() string { return rc.test }

// Iteration returns the 1-based iteration being run.
func (rc *RunContext) Iteration() int { return rc.iteration }

// Stdout returns the writer standing in for standard output during the timed span.
func (rc *RunContext) Stdout() io.Writer { return os.Stdout }

// StartTimer starts the named timer. Starting a running timer restarts it.
func (rc *RunContext) StartTimer(name string) error {
	return rc.start(UserMarker(name))
}

// EndTimer ends the named timer and adds the elapsed time to its total.
func (rc *RunContext) EndTimer(name string) error {
	return rc.end(UserMarker(name))
}

// Checkpoint records the time elapsed since the current iteration began.
func (rc *RunContext) Checkpoint(name string) error {
	if err := rc.check(); err != nil {
		return err
	}
	now := rc.p.clock.Now()

	total := rc.bucket.timers[TotalMarker]
	if total == nil || !total.started {
		return fmt.Errorf("%w: checkpoint %q in test %q", ErrNoActiveTotalTimer, name, rc.test)
	}

	s, ok := rc.bucket.checkpoints[name]
	if !ok {
		s = &checkpointSample{}
		rc.bucket.checkpoints[name] = s
		rc.bucket.checkpointOrder = append(rc.bucket.checkpointOrder, name)
	}
	s.total += now.Sub(total.start)
	s.hits++
	return nil
}

// MarkMemoryUsage records the current and resident memory usage under name.
func (rc *RunContext) MarkMemoryUsage(name string) error {
	if err := rc.check(); err != nil {
		return err
	}

	usage, err := rc.p.memory.ReadMemory()
	if err != nil {
		return fmt.Errorf("mark memory %q in test %q: %w", name, rc.test, err)
	}

	s, ok := rc.bucket.memory[name]
	if !ok {
		s = &memorySample{}
		rc.bucket.memory[name] = s
		rc.bucket.memoryOrder = append(rc.bucket.memoryOrder, name)
	}
	s.current += usage.Current
	s.real += usage.Real
	s.hits++
	return nil
}

func (rc *RunContext) check() error {
	if rc == nil || !rc.active {
		return ErrNoActiveTest
	}
	return nil
}

// beginIteration resets every timer's span so a timer cannot end across iterations.
func (rc *RunContext) beginIteration(i int) {
	rc.iteration = i
	for _, s := range rc.bucket.timers {
		s.started = false
	}
}

func (rc *RunContext) start(m Marker) error {
	if err := rc.check(); err != nil {
		return err
	}

	s, ok := rc.bucket.timers[m]
	if !ok {
		s = &timerSample{}
		rc.bucket.timers[m] = s
		if !m.IsTotal() {
			rc.bucket.timerOrder = append(rc.bucket.timerOrder, m)
		}
	}
	s.start = rc.p.clock.Now()
	s.started = true
	return nil
}

func (rc *RunContext) end(m Marker) error {
	if err := rc.check(); err != nil {
		return err
	}
	now := rc.p.clock.Now()

	s, ok := rc.bucket.timers[m]
	if !ok || !s.started {
		return fmt.Errorf("%w: %q in test %q", ErrTimerNotStarted, m.Name(), rc.test)
	}

	elapsed := now.Sub(s.start)
	if m.IsTotal() && rc.p.opts.TareRuns {
		elapsed -= rc.p.tare
		if elapsed < 0 {
			elapsed = 0
		}
	}
	s.total += elapsed
	s.hits++
	s.started = false
	return nil
}

func (p *Profiler) context() (*RunContext, error) {
	if p.active == nil {
		return nil, ErrNoActiveTest
	}
	return p.active, nil
}

// StartTimer starts a timer on the running test. It fails with ErrNoActiveTest outside Run.
func (p *Profiler) StartTimer(name string) error {
	rc, err := p.context()
	if err != nil {
		return err
	}
	return rc.StartTimer(name)
}

// EndTimer ends a timer on the running test.
func (p *Profiler) EndTimer(name string) error {
	rc, err := p.context()
	if err != nil {
		return err
	}
	return rc.EndTimer(name)
}

// Checkpoint records a checkpoint on the running test.
func (p *Profiler) Checkpoint(name string) error {
	rc, err := p.context()
	if err != nil {
		return err
	}
	return rc.Checkpoint(name)
}

// MarkMemoryUsage records memory usage on the running test.
func (p *Profiler) MarkMemoryUsage(name string) error {
	rc, err := p.context()
	if err != nil {
		return err
	}
	return rc.MarkMemoryUsage(name)
}
