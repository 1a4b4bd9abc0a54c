package profiler

import (
	"fmt"
	"io"
	"os"
)

// OutputCapture suppresses the console output a unit of work produces while it is timed.
// Capture acquires the capture resource; the returned release func restores the
// original output and discards everything captured.
type OutputCapture interface {
	Capture() (release func() error, err error)
}

type stdoutCapture struct{}

// StdoutCapture returns an OutputCapture that swaps os.Stdout for a pipe drained into io.Discard.
func StdoutCapture() OutputCapture { return stdoutCapture{} }

func (stdoutCapture) Capture() (func() error, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, r)
		close(done)
	}()

	return func() error {
		os.Stdout = orig
		err := w.Close()
		<-done
		if cerr := r.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}
