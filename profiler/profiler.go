// Package profiler runs named units of work for a number of iterations and collects
// caller-instrumented timers, checkpoints and memory marks, averaged per test.
//
// A unit of work receives a *RunContext and calls back into it:
//
//	p := profiler.New()
//	_ = p.Register("loop", 10, func(rc *profiler.RunContext) error {
//		if err := rc.StartTimer("inner"); err != nil {
//			return err
//		}
//		doWork()
//		return rc.EndTimer("inner")
//	})
//	if err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//	_ = p.Render(os.Stdout, profiler.FormatPlain)
//
// A Profiler is not safe for concurrent use. Run blocks until every iteration of
// every registered test has completed.
package profiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Work is a unit of work to be timed. Returning an error aborts the run.
type Work func(rc *RunContext) error

// TestDefinition is a registered test.
type TestDefinition struct {
	Name       string
	Iterations int
	Work       Work
}

// RunState describes the most recent call to Run.
type RunState struct {
	ID              uuid.UUID
	Current         string
	StartedAt       time.Time
	EndedAt         time.Time
	TotalIterations int
}

// Profiler holds registered tests, their options and the results of the last run.
type Profiler struct {
	opts    Options
	clock   Clock
	memory  MemoryReader
	capture OutputCapture
	log     Logger

	tests map[string]TestDefinition
	order []string

	tare    time.Duration
	state   RunState
	active  *RunContext
	results map[string]TestResult
	done    []string
}

// New creates a Profiler with DefaultOptions and the system clock, memory reader and
// stdout capture, then applies opts.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		opts:    DefaultOptions(),
		clock:   SystemClock(),
		memory:  SystemMemoryReader(),
		capture: StdoutCapture(),
		log:     func(string, string, map[string]any) {},
		tests:   make(map[string]TestDefinition),
		results: make(map[string]TestResult),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Options returns a copy of the current options.
func (p *Profiler) Options() Options { return p.opts.clone() }

// Configure replaces the current options wholesale. Use Merge or Set to change
// individual keys.
func (p *Profiler) Configure(opts Options) *Profiler {
	p.opts = opts.clone()
	return p
}

// Merge applies every recognized key in settings over the current options and keeps
// the rest in Options.Extra. Nothing changes if any recognized key has a bad value.
func (p *Profiler) Merge(settings map[string]any) error {
	return p.opts.merge(settings)
}

// Set merges a single option by key. Unknown keys are kept in Options.Extra.
func (p *Profiler) Set(key string, value any) error {
	return p.opts.set(key, value)
}

// Register adds a test, replacing any test already registered under name.
// A replaced test keeps its original position in the run order.
func (p *Profiler) Register(name string, iterations int, work Work) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if work == nil {
		return fmt.Errorf("%w: test %q has no work", ErrInvalidDefinition, name)
	}

	if _, exists := p.tests[name]; !exists {
		p.order = append(p.order, name)
	}
	p.tests[name] = TestDefinition{Name: name, Iterations: iterations, Work: work}
	return nil
}

// Tests returns the registered tests in run order.
func (p *Profiler) Tests() []TestDefinition {
	defs := make([]TestDefinition, 0, len(p.order))
	for _, name := range p.order {
		defs = append(defs, p.tests[name])
	}
	return defs
}

// Clear removes every registered test and all results. Options are kept.
func (p *Profiler) Clear() {
	p.tests = make(map[string]TestDefinition)
	p.order = nil
	p.results = make(map[string]TestResult)
	p.done = nil
}

// Tare returns the overhead measured by the last calibration. It is subtracted from
// every total timer increment, and an increment that would go negative counts as zero.
func (p *Profiler) Tare() time.Duration { return p.tare }

// State returns a snapshot of the last run.
func (p *Profiler) State() RunState { return p.state }
