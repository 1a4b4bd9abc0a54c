package profiler

import (
	"errors"
	"time"
)

// fakeClock returns now and then advances it by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeMemory struct {
	readings []MemoryUsage
	next     int
	err      error
}

func (m *fakeMemory) ReadMemory() (MemoryUsage, error) {
	if m.err != nil {
		return MemoryUsage{}, m.err
	}
	if len(m.readings) == 0 {
		return MemoryUsage{}, errors.New("no readings")
	}
	r := m.readings[m.next%len(m.readings)]
	m.next++
	return r, nil
}

type countingCapture struct {
	acquired int
	released int
}

func (c *countingCapture) Capture() (func() error, error) {
	c.acquired++
	return func() error {
		c.released++
		return nil
	}, nil
}

func newTestProfiler(clock Clock, opts Options, extra ...Option) (*Profiler, *countingCapture) {
	capture := &countingCapture{}
	all := []Option{
		WithOptions(opts),
		WithClock(clock),
		WithMemoryReader(&fakeMemory{readings: []MemoryUsage{{Current: 1, Real: 1}}}),
		WithOutputCapture(capture),
	}
	return New(append(all, extra...)...), capture
}

func noTare() Options {
	opts := DefaultOptions()
	opts.TareRuns = false
	return opts
}
