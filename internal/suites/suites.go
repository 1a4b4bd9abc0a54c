// Package suites holds the built-in workloads the codon CLI can profile.
package suites

import (
	"fmt"
	"strings"
	"time"

	"github.com/mwiater/codon/profiler"
)

// Suite is a named workload with its default iteration count.
type Suite struct {
	Name        string
	Description string
	Iterations  int
	Work        profiler.Work
}

const loopSize = 1000

var data = func() []int {
	d := make([]int, loopSize)
	for i := range d {
		d[i] = i
	}
	return d
}()

// sink keeps allocations reachable so they show up in memory marks.
var sink [][]byte

// All returns every built-in suite in display order.
func All() []Suite {
	return []Suite{
		{
			Name:        "count-in-loop",
			Description: "print 1000 values, evaluating the length on every step",
			Iterations:  100,
			Work:        countInLoop,
		},
		{
			Name:        "count-out-of-loop",
			Description: "print 1000 values with the length hoisted out of the loop",
			Iterations:  100,
			Work:        countOutOfLoop,
		},
		{
			Name:        "sleep",
			Description: "sleep 5ms with a checkpoint at the midpoint",
			Iterations:  10,
			Work:        sleepWork,
		},
		{
			Name:        "alloc",
			Description: "allocate 1 MiB and mark memory before and after",
			Iterations:  5,
			Work:        allocWork,
		},
	}
}

// Lookup returns the suites with the given names, in the order given.
// No names selects every suite.
func Lookup(names ...string) ([]Suite, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Suite, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	selected := make([]Suite, 0, len(names))
	for _, name := range names {
		s, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown suite %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// Register adds suites to p. A positive iterations overrides each suite's default.
func Register(p *profiler.Profiler, selected []Suite, iterations int) error {
	for _, s := range selected {
		n := s.Iterations
		if iterations > 0 {
			n = iterations
		}
		if err := p.Register(s.Name, n, s.Work); err != nil {
			return fmt.Errorf("register suite %s: %w", s.Name, err)
		}
	}
	return nil
}

func countInLoop(rc *profiler.RunContext) error {
	length := func() int { return len(data) }
	return printLoop(rc, length)
}

func countOutOfLoop(rc *profiler.RunContext) error {
	n := len(data)
	return printLoop(rc, func() int { return n })
}

func printLoop(rc *profiler.RunContext, length func() int) error {
	if err := rc.MarkMemoryUsage("Start of loop"); err != nil {
		return err
	}
	if err := rc.StartTimer("Loop only"); err != nil {
		return err
	}

	out := rc.Stdout()
	for i := 0; i < length(); i++ {
		if i == loopSize/2 {
			if err := rc.Checkpoint("halfway"); err != nil {
				return err
			}
			if err := rc.MarkMemoryUsage("halfway"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out, data[i]); err != nil {
			return err
		}
	}

	return rc.EndTimer("Loop only")
}

func sleepWork(rc *profiler.RunContext) error {
	time.Sleep(2500 * time.Microsecond)
	if err := rc.Checkpoint("mid"); err != nil {
		return err
	}
	time.Sleep(2500 * time.Microsecond)
	return nil
}

func allocWork(rc *profiler.RunContext) error {
	if err := rc.MarkMemoryUsage("before"); err != nil {
		return err
	}
	buf := make([]byte, 1<<20)
	for i := range buf {
		buf[i] = byte(i)
	}
	sink = append(sink, buf)
	return rc.MarkMemoryUsage("after")
}
