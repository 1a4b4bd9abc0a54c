package profiler

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// MemoryUsage is a single reading of the process memory.
// Current is the live Go heap; Real is the resident set size reported by the OS.
type MemoryUsage struct {
	Current uint64
	Real    uint64
}

// MemoryReader reads the current memory usage of the process.
type MemoryReader interface {
	ReadMemory() (MemoryUsage, error)
}

// processMemoryReader combines runtime heap statistics with the OS resident set size.
type processMemoryReader struct {
	once sync.Once
	proc *process.Process
	err  error
}

// SystemMemoryReader returns a MemoryReader for the running process.
func SystemMemoryReader() MemoryReader {
	return &processMemoryReader{}
}

func (r *processMemoryReader) ReadMemory() (MemoryUsage, error) {
	r.once.Do(func() {
		r.proc, r.err = process.NewProcess(int32(os.Getpid()))
	})
	if r.err != nil {
		return MemoryUsage{}, fmt.Errorf("open process: %w", r.err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	info, err := r.proc.MemoryInfo()
	if err != nil {
		return MemoryUsage{}, fmt.Errorf("read resident memory: %w", err)
	}

	return MemoryUsage{Current: stats.HeapAlloc, Real: info.RSS}, nil
}
