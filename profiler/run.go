package profiler

import (
	"fmt"

	"github.com/google/uuid"
)

// Run calibrates the tare when enabled, then runs every registered test in
// registration order. Results from a previous Run are discarded.
//
// A unit of work returning an error aborts the run; the error is a *WorkError.
// Tests that completed before the failure keep their results.
func (p *Profiler) Run() error {
	p.results = make(map[string]TestResult)
	p.done = nil
	p.state = RunState{ID: uuid.New(), StartedAt: p.clock.Now()}

	if p.opts.TareRuns {
		p.tare = p.calibrate()
		p.log("calibrate", "", map[string]any{"tare": p.tare, "runs": calibrationRuns})
	} else {
		p.tare = 0
	}

	for _, name := range p.order {
		if err := p.runTest(p.tests[name]); err != nil {
			p.state.EndedAt = p.clock.Now()
			return err
		}
	}

	p.state.EndedAt = p.clock.Now()
	p.log("run", "", map[string]any{
		"id":         p.state.ID,
		"tests":      len(p.done),
		"iterations": p.state.TotalIterations,
	})
	return nil
}

func (p *Profiler) runTest(def TestDefinition) (err error) {
	iterations := def.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	rc := &RunContext{p: p, test: def.Name, bucket: newBucket(), active: true}
	p.active = rc
	p.state.Current = def.Name
	defer func() {
		rc.active = false
		p.active = nil
		p.state.Current = ""
	}()

	if !p.opts.ShowOutput {
		release, cerr := p.capture.Capture()
		if cerr != nil {
			return fmt.Errorf("capture output for test %q: %w", def.Name, cerr)
		}
		defer func() {
			if rerr := release(); rerr != nil && err == nil {
				err = fmt.Errorf("release output for test %q: %w", def.Name, rerr)
			}
		}()
	}

	p.log("test", def.Name, map[string]any{"iterations": iterations})

	for i := 1; i <= iterations; i++ {
		rc.beginIteration(i)
		if err := rc.start(TotalMarker); err != nil {
			return err
		}
		if werr := def.Work(rc); werr != nil {
			return &WorkError{Test: def.Name, Iteration: i, Err: werr}
		}
		if err := rc.end(TotalMarker); err != nil {
			return err
		}
		p.state.TotalIterations++
	}

	result := rc.bucket.average(def.Name, iterations)
	p.results[def.Name] = result
	p.done = append(p.done, def.Name)
	p.log("test", def.Name, map[string]any{"total": result.Total})
	return nil
}
