package profiler

import (
	"fmt"
	"sort"
	"strings"
)

// Option keys accepted by Profiler.Set and Profiler.Merge. Keys match case-insensitively.
const (
	KeyShowOutput        = "showOutput"
	KeyTareRuns          = "tareRuns"
	KeyFormatMemoryUsage = "formatMemoryUsage"
)

// Options controls how a Profiler runs and reports.
type Options struct {
	// ShowOutput lets console output from timed sections through; when false it is captured and discarded.
	ShowOutput bool
	// TareRuns enables overhead calibration and subtraction from the total timer.
	TareRuns bool
	// FormatMemoryUsage renders memory as B/KB/MB instead of raw byte counts.
	FormatMemoryUsage bool
	// Extra holds unrecognized keys passed to Set. They have no effect.
	Extra map[string]any
}

// DefaultOptions returns the options a new Profiler starts with.
func DefaultOptions() Options {
	return Options{
		ShowOutput:        false,
		TareRuns:          true,
		FormatMemoryUsage: true,
	}
}

func (o Options) clone() Options {
	if o.Extra != nil {
		extra := make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			extra[k] = v
		}
		o.Extra = extra
	}
	return o
}

// set merges a single option by key.
func (o *Options) set(key string, value any) error {
	var dst *bool
	switch {
	case strings.EqualFold(key, KeyShowOutput):
		dst = &o.ShowOutput
	case strings.EqualFold(key, KeyTareRuns):
		dst = &o.TareRuns
	case strings.EqualFold(key, KeyFormatMemoryUsage):
		dst = &o.FormatMemoryUsage
	default:
		if o.Extra == nil {
			o.Extra = make(map[string]any)
		}
		o.Extra[key] = value
		return nil
	}

	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidOption, key, value)
	}
	*dst = b
	return nil
}

// merge applies settings in key order. On error o is left untouched.
func (o *Options) merge(settings map[string]any) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := o.clone()
	for _, k := range keys {
		if err := next.set(k, settings[k]); err != nil {
			return err
		}
	}
	*o = next
	return nil
}

// Option configures a Profiler at construction.
type Option func(*Profiler)

// WithOptions replaces the default Options.
func WithOptions(opts Options) Option {
	return func(p *Profiler) { p.opts = opts.clone() }
}

// WithClock sets the clock used for every measurement.
func WithClock(c Clock) Option {
	return func(p *Profiler) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithMemoryReader sets the reader used by MarkMemoryUsage.
func WithMemoryReader(r MemoryReader) Option {
	return func(p *Profiler) {
		if r != nil {
			p.memory = r
		}
	}
}

// WithOutputCapture sets the capture used when ShowOutput is false.
func WithOutputCapture(c OutputCapture) Option {
	return func(p *Profiler) {
		if c != nil {
			p.capture = c
		}
	}
}

// Logger receives engine events. test is empty for run-wide phases.
type Logger func(phase, test string, fields map[string]any)

// WithLogger routes engine events to log.
func WithLogger(log Logger) Option {
	return func(p *Profiler) {
		if log != nil {
			p.log = log
		}
	}
}
