package profiler

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLoopScenario(t *testing.T) {
	clock := newFakeClock(0)
	p, _ := newTestProfiler(clock, noTare())

	require.NoError(t, p.Register("loop", 10, func(rc *RunContext) error {
		clock.Advance(2500 * time.Microsecond)
		if err := rc.Checkpoint("mid"); err != nil {
			return err
		}
		clock.Advance(2500 * time.Microsecond)
		return nil
	}))
	require.NoError(t, p.Run())

	res := p.Results()["loop"]
	assert.Equal(t, 10, res.Iterations)
	assert.Equal(t, 5*time.Millisecond, res.Total)
	assert.Equal(t, 5*time.Millisecond, res.TimerMap()[TotalName])

	mid, ok := res.Checkpoint("mid")
	require.True(t, ok)
	assert.Equal(t, 2500*time.Microsecond, mid)
	assert.Less(t, mid, res.Total)

	state := p.State()
	assert.Equal(t, 10, state.TotalIterations)
	assert.Empty(t, state.Current)
	assert.NotEqual(t, uuid.Nil, state.ID)
}

func TestRunWithSystemClock(t *testing.T) {
	p, _ := newTestProfiler(SystemClock(), DefaultOptions())

	require.NoError(t, p.Register("sleep", 3, func(rc *RunContext) error {
		time.Sleep(2 * time.Millisecond)
		if err := rc.Checkpoint("mid"); err != nil {
			return err
		}
		time.Sleep(2 * time.Millisecond)
		return nil
	}))
	require.NoError(t, p.Run())

	res, ok := p.Result("sleep")
	require.True(t, ok)
	assert.GreaterOrEqual(t, p.Tare(), time.Duration(0))
	assert.GreaterOrEqual(t, res.Total, 4*time.Millisecond-p.Tare())
	assert.Less(t, res.Total, 500*time.Millisecond)

	mid, _ := res.Checkpoint("mid")
	assert.GreaterOrEqual(t, mid, 2*time.Millisecond)
	assert.Less(t, mid, res.Total+p.Tare())
}

func TestTareIsSubtractedFromTotalOnly(t *testing.T) {
	clock := newFakeClock(time.Microsecond)
	p, _ := newTestProfiler(clock, DefaultOptions())

	require.NoError(t, p.Register("work", 4, func(rc *RunContext) error {
		if err := rc.StartTimer("inner"); err != nil {
			return err
		}
		clock.Advance(10 * time.Microsecond)
		return rc.EndTimer("inner")
	}))
	require.NoError(t, p.Run())

	assert.Equal(t, time.Microsecond, p.Tare())

	res := p.Results()["work"]
	inner, ok := res.Timer("inner")
	require.True(t, ok)
	// start call advances 1µs, then 10µs of work.
	assert.Equal(t, 11*time.Microsecond, inner)
	// total spans three clock reads plus the work, minus the 1µs tare.
	assert.Equal(t, 12*time.Microsecond, res.Total)
}

func TestTareNeverDrivesTotalNegative(t *testing.T) {
	clock := newFakeClock(2 * time.Microsecond)
	p, _ := newTestProfiler(clock, DefaultOptions())
	// once calibrated, the clock stops so every later span is shorter than the tare.
	require.NoError(t, p.Register("empty", 5, func(*RunContext) error {
		clock.step = 0
		return nil
	}))
	require.NoError(t, p.Run())

	assert.Equal(t, 2*time.Microsecond, p.Tare())
	assert.Equal(t, time.Duration(0), p.Results()["empty"].Total)
}

func TestTareDisabled(t *testing.T) {
	clock := newFakeClock(time.Microsecond)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("empty", 5, nop))
	require.NoError(t, p.Run())

	assert.Equal(t, time.Duration(0), p.Tare())
	assert.Equal(t, time.Microsecond, p.Results()["empty"].Total)
}

func TestIterationsCoercedToOne(t *testing.T) {
	for _, iterations := range []int{0, -3} {
		p, _ := newTestProfiler(newFakeClock(0), noTare())
		calls := 0
		require.NoError(t, p.Register("once", iterations, func(*RunContext) error { calls++; return nil }))
		require.NoError(t, p.Run())

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, p.Results()["once"].Iterations)
	}
}

func TestRunOrderAndRerun(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	var seen []string
	for _, name := range []string{"c", "a", "b"} {
		name := name
		require.NoError(t, p.Register(name, 2, func(rc *RunContext) error {
			seen = append(seen, fmt.Sprintf("%s%d", rc.Test(), rc.Iteration()))
			return nil
		}))
	}

	require.NoError(t, p.Run())
	assert.Equal(t, []string{"c1", "c2", "a1", "a2", "b1", "b2"}, seen)
	firstID := p.State().ID

	require.NoError(t, p.Run())
	assert.Len(t, seen, 12)
	assert.Equal(t, 6, p.State().TotalIterations)
	assert.NotEqual(t, firstID, p.State().ID)

	var names []string
	for _, r := range p.OrderedResults() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestWorkErrorAbortsRun(t *testing.T) {
	p, capture := newTestProfiler(newFakeClock(0), noTare())
	boom := errors.New("boom")

	calls := map[string]int{}
	require.NoError(t, p.Register("ok", 2, func(*RunContext) error { calls["ok"]++; return nil }))
	require.NoError(t, p.Register("fails", 5, func(rc *RunContext) error {
		calls["fails"]++
		if rc.Iteration() == 2 {
			return boom
		}
		return nil
	}))
	require.NoError(t, p.Register("never", 1, func(*RunContext) error { calls["never"]++; return nil }))

	err := p.Run()
	require.ErrorIs(t, err, boom)

	var workErr *WorkError
	require.ErrorAs(t, err, &workErr)
	assert.Equal(t, "fails", workErr.Test)
	assert.Equal(t, 2, workErr.Iteration)

	assert.Equal(t, map[string]int{"ok": 2, "fails": 2}, calls)
	assert.Contains(t, p.Results(), "ok")
	assert.NotContains(t, p.Results(), "fails")
	assert.Equal(t, capture.acquired, capture.released)
	assert.Equal(t, 2, capture.acquired)
}

func TestOutputCaptureScopedPerTest(t *testing.T) {
	p, capture := newTestProfiler(newFakeClock(0), noTare())
	require.NoError(t, p.Register("a", 3, nop))
	require.NoError(t, p.Register("b", 3, nop))
	require.NoError(t, p.Run())

	assert.Equal(t, 2, capture.acquired)
	assert.Equal(t, 2, capture.released)

	opts := noTare()
	opts.ShowOutput = true
	p.Configure(opts)
	require.NoError(t, p.Run())
	assert.Equal(t, 2, capture.acquired)
}

func TestStdoutCaptureRestoresStdout(t *testing.T) {
	orig := os.Stdout
	p := New(WithOptions(noTare()), WithClock(newFakeClock(0)))

	var during *os.File
	require.NoError(t, p.Register("noisy", 3, func(rc *RunContext) error {
		during = os.Stdout
		_, err := fmt.Fprintln(rc.Stdout(), "this line is discarded")
		return err
	}))
	require.NoError(t, p.Run())

	assert.NotSame(t, orig, during)
	assert.Same(t, orig, os.Stdout)
}

func TestPanicReleasesCapture(t *testing.T) {
	p, capture := newTestProfiler(newFakeClock(0), noTare())
	require.NoError(t, p.Register("panics", 1, func(*RunContext) error { panic("kaboom") }))

	assert.PanicsWithValue(t, "kaboom", func() { _ = p.Run() })
	assert.Equal(t, 1, capture.released)
	assert.ErrorIs(t, p.StartTimer("x"), ErrNoActiveTest)
}

func TestLoggerReceivesEvents(t *testing.T) {
	type event struct {
		phase, test string
		fields      map[string]any
	}
	var events []event
	log := func(phase, test string, fields map[string]any) {
		events = append(events, event{phase, test, fields})
	}
	p, _ := newTestProfiler(newFakeClock(0), DefaultOptions(), WithLogger(log))
	require.NoError(t, p.Register("a", 3, nop))
	require.NoError(t, p.Run())

	require.Len(t, events, 4)
	assert.Equal(t, "calibrate", events[0].phase)
	assert.Equal(t, calibrationRuns, events[0].fields["runs"])
	assert.Equal(t, event{"test", "a", map[string]any{"iterations": 3}}, events[1])
	assert.Equal(t, "a", events[2].test)
	assert.Contains(t, events[2].fields, "total")
	assert.Equal(t, "run", events[3].phase)
	assert.Empty(t, events[3].test)
	assert.Equal(t, 3, events[3].fields["iterations"])
	assert.Equal(t, p.State().ID, events[3].fields["id"])
}
