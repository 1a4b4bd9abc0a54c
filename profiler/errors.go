package profiler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition is returned when a test is registered without a name or work.
	ErrInvalidDefinition = errors.New("invalid test definition")
	// ErrInvalidOption is returned when a recognized option is set to a value of the wrong type.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNoActiveTest is returned by instrumentation calls made outside of Run.
	ErrNoActiveTest = errors.New("no active test")
	// ErrNoActiveTotalTimer is returned by Checkpoint when the iteration has not started its total timer.
	ErrNoActiveTotalTimer = errors.New("no active total timer")
	// ErrTimerNotStarted is returned by EndTimer for a marker that was never started in the current span.
	ErrTimerNotStarted = errors.New("timer not started")
)

// WorkError reports a unit of work that failed and aborted the run.
type WorkError struct {
	Test      string
	Iteration int
	Err       error
}

func (e *WorkError) Error() string {
	return fmt.Sprintf("test %q failed on iteration %d: %v", e.Test, e.Iteration, e.Err)
}

func (e *WorkError) Unwrap() error { return e.Err }
