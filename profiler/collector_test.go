package profiler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndTimerWithoutStart(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	require.NoError(t, p.Register("bad", 1, func(rc *RunContext) error {
		return rc.EndTimer("x")
	}))

	err := p.Run()
	require.ErrorIs(t, err, ErrTimerNotStarted)
	assert.Empty(t, p.Results())
}

func TestEndTimerTwice(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	var second error
	require.NoError(t, p.Register("twice", 1, func(rc *RunContext) error {
		if err := rc.StartTimer("x"); err != nil {
			return err
		}
		if err := rc.EndTimer("x"); err != nil {
			return err
		}
		second = rc.EndTimer("x")
		return nil
	}))
	require.NoError(t, p.Run())
	assert.ErrorIs(t, second, ErrTimerNotStarted)
}

func TestTimerCannotSpanIterations(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	require.NoError(t, p.Register("span", 2, func(rc *RunContext) error {
		if rc.Iteration() == 1 {
			return rc.StartTimer("x")
		}
		return rc.EndTimer("x")
	}))

	err := p.Run()
	require.ErrorIs(t, err, ErrTimerNotStarted)
	var workErr *WorkError
	require.True(t, errors.As(err, &workErr))
	assert.Equal(t, 2, workErr.Iteration)
}

func TestRestartedTimerKeepsLastStart(t *testing.T) {
	clock := newFakeClock(0)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("restart", 1, func(rc *RunContext) error {
		if err := rc.StartTimer("x"); err != nil {
			return err
		}
		clock.Advance(5 * time.Millisecond)
		if err := rc.StartTimer("x"); err != nil {
			return err
		}
		clock.Advance(3 * time.Millisecond)
		return rc.EndTimer("x")
	}))
	require.NoError(t, p.Run())

	x, ok := p.Results()["restart"].Timer("x")
	require.True(t, ok)
	assert.Equal(t, 3*time.Millisecond, x)
}

func TestUserTimerNamedTotal(t *testing.T) {
	clock := newFakeClock(0)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("names", 1, func(rc *RunContext) error {
		clock.Advance(time.Millisecond)
		if err := rc.StartTimer(TotalName); err != nil {
			return err
		}
		clock.Advance(time.Millisecond)
		return rc.EndTimer(TotalName)
	}))
	require.NoError(t, p.Run())

	res := p.Results()["names"]
	user, ok := res.Timer(TotalName)
	require.True(t, ok)
	assert.Equal(t, time.Millisecond, user)
	assert.Equal(t, 2*time.Millisecond, res.Total)
}

func TestCheckpointRequiresTotalTimer(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	rc := &RunContext{p: p, test: "manual", bucket: newBucket(), active: true}

	err := rc.Checkpoint("early")
	require.ErrorIs(t, err, ErrNoActiveTotalTimer)

	require.NoError(t, rc.start(TotalMarker))
	require.NoError(t, rc.Checkpoint("inside"))
	require.NoError(t, rc.end(TotalMarker))

	err = rc.Checkpoint("late")
	require.ErrorIs(t, err, ErrNoActiveTotalTimer)
}

func TestCheckpointBeforeTotalEnds(t *testing.T) {
	clock := newFakeClock(time.Microsecond)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("cp", 7, func(rc *RunContext) error {
		clock.Advance(40 * time.Microsecond)
		if err := rc.Checkpoint("part"); err != nil {
			return err
		}
		clock.Advance(40 * time.Microsecond)
		return nil
	}))
	require.NoError(t, p.Run())

	res := p.Results()["cp"]
	part, ok := res.Checkpoint("part")
	require.True(t, ok)
	assert.Less(t, part, res.Total)
	assert.Equal(t, 41*time.Microsecond, part)
}

func TestSparseCheckpointDividesByIterations(t *testing.T) {
	clock := newFakeClock(0)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("sparse", 4, func(rc *RunContext) error {
		clock.Advance(8 * time.Millisecond)
		if rc.Iteration() == 1 {
			return rc.Checkpoint("rare")
		}
		return nil
	}))
	require.NoError(t, p.Run())

	res := p.Results()["sparse"]
	require.Len(t, res.Checkpoints, 1)
	assert.Equal(t, 2*time.Millisecond, res.Checkpoints[0].Average)
	assert.Equal(t, 1, res.Checkpoints[0].Hits)
}

func TestMarkMemoryUsageAverages(t *testing.T) {
	mem := &fakeMemory{readings: []MemoryUsage{
		{Current: 100, Real: 1000},
		{Current: 200, Real: 2000},
		{Current: 601, Real: 3001},
	}}
	p := New(WithOptions(noTare()), WithClock(newFakeClock(0)), WithMemoryReader(mem), WithOutputCapture(&countingCapture{}))
	require.NoError(t, p.Register("mem", 3, func(rc *RunContext) error {
		return rc.MarkMemoryUsage("start")
	}))
	require.NoError(t, p.Run())

	stat, ok := p.Results()["mem"].MemoryAt("start")
	require.True(t, ok)
	assert.InDelta(t, 901.0/3, stat.Current, 1e-9)
	assert.InDelta(t, 6001.0/3, stat.Real, 1e-9)
	assert.Equal(t, 3, stat.Hits)
}

func TestMarkMemoryUsageReaderError(t *testing.T) {
	failure := errors.New("no procfs")
	p := New(WithOptions(noTare()), WithClock(newFakeClock(0)), WithMemoryReader(&fakeMemory{err: failure}), WithOutputCapture(&countingCapture{}))
	require.NoError(t, p.Register("mem", 1, func(rc *RunContext) error {
		return rc.MarkMemoryUsage("start")
	}))

	err := p.Run()
	require.ErrorIs(t, err, failure)
}

func TestStaleContextIsRejected(t *testing.T) {
	p, _ := newTestProfiler(newFakeClock(0), noTare())
	var kept *RunContext
	require.NoError(t, p.Register("keep", 1, func(rc *RunContext) error {
		kept = rc
		return nil
	}))
	require.NoError(t, p.Run())

	assert.ErrorIs(t, kept.StartTimer("x"), ErrNoActiveTest)
	assert.ErrorIs(t, kept.Checkpoint("x"), ErrNoActiveTest)
	assert.ErrorIs(t, kept.MarkMemoryUsage("x"), ErrNoActiveTest)
}

func TestProfilerDelegatesToActiveTest(t *testing.T) {
	clock := newFakeClock(0)
	p, _ := newTestProfiler(clock, noTare())
	require.NoError(t, p.Register("closure", 2, func(*RunContext) error {
		if err := p.StartTimer("outer"); err != nil {
			return err
		}
		clock.Advance(time.Millisecond)
		if err := p.Checkpoint("cp"); err != nil {
			return err
		}
		if err := p.MarkMemoryUsage("m"); err != nil {
			return err
		}
		return p.EndTimer("outer")
	}))
	require.NoError(t, p.Run())

	res := p.Results()["closure"]
	outer, _ := res.Timer("outer")
	assert.Equal(t, time.Millisecond, outer)
	cp, _ := res.Checkpoint("cp")
	assert.Equal(t, time.Millisecond, cp)
	_, ok := res.MemoryAt("m")
	assert.True(t, ok)
}
