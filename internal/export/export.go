// Package export writes the results of a profiler run to JSON, YAML or a Prometheus textfile.
// Exports are write-only; nothing in codon reads them back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mwiater/codon/profiler"
	"gopkg.in/yaml.v3"
)

// Snapshot is the serializable form of a completed run.
type Snapshot struct {
	RunID           string         `json:"runId" yaml:"runId"`
	StartedAt       time.Time      `json:"startedAt" yaml:"startedAt"`
	EndedAt         time.Time      `json:"endedAt" yaml:"endedAt"`
	GoVersion       string         `json:"goVersion" yaml:"goVersion"`
	TareSeconds     float64        `json:"tareSeconds" yaml:"tareSeconds"`
	TotalIterations int            `json:"totalIterations" yaml:"totalIterations"`
	Tests           []TestSnapshot `json:"tests" yaml:"tests"`
}

// TestSnapshot holds the averages of one test.
type TestSnapshot struct {
	Name         string           `json:"name" yaml:"name"`
	Iterations   int              `json:"iterations" yaml:"iterations"`
	TotalSeconds float64          `json:"totalSeconds" yaml:"totalSeconds"`
	Timers       []DurationValue  `json:"timers,omitempty" yaml:"timers,omitempty"`
	Checkpoints  []DurationValue  `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	Memory       []MemorySnapshot `json:"memory,omitempty" yaml:"memory,omitempty"`
}

// DurationValue is an averaged timer or checkpoint in seconds.
type DurationValue struct {
	Name    string  `json:"name" yaml:"name"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
	Hits    int     `json:"hits" yaml:"hits"`
}

// MemorySnapshot is an averaged memory mark in bytes.
type MemorySnapshot struct {
	Name         string  `json:"name" yaml:"name"`
	CurrentBytes float64 `json:"currentBytes" yaml:"currentBytes"`
	RealBytes    float64 `json:"realBytes" yaml:"realBytes"`
	Hits         int     `json:"hits" yaml:"hits"`
}

// FromProfiler captures the last run of p.
func FromProfiler(p *profiler.Profiler) Snapshot {
	state := p.State()
	s := Snapshot{
		RunID:           state.ID.String(),
		StartedAt:       state.StartedAt,
		EndedAt:         state.EndedAt,
		GoVersion:       runtime.Version(),
		TareSeconds:     p.Tare().Seconds(),
		TotalIterations: state.TotalIterations,
	}

	for _, r := range p.OrderedResults() {
		t := TestSnapshot{
			Name:         r.Name,
			Iterations:   r.Iterations,
			TotalSeconds: r.Total.Seconds(),
		}
		for _, timer := range r.Timers {
			t.Timers = append(t.Timers, DurationValue{Name: timer.Name, Seconds: timer.Average.Seconds(), Hits: timer.Hits})
		}
		for _, cp := range r.Checkpoints {
			t.Checkpoints = append(t.Checkpoints, DurationValue{Name: cp.Name, Seconds: cp.Average.Seconds(), Hits: cp.Hits})
		}
		for _, m := range r.Memory {
			t.Memory = append(t.Memory, MemorySnapshot{Name: m.Name, CurrentBytes: m.Current, RealBytes: m.Real, Hits: m.Hits})
		}
		s.Tests = append(s.Tests, t)
	}
	return s
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, s Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// WriteYAML encodes s as YAML.
func WriteYAML(w io.Writer, s Snapshot) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return err
	}
	return encoder.Close()
}

// Write creates path and writes s to it in the given format ("json" or "yaml").
func Write(path, format string, s Snapshot) error {
	var encode func(io.Writer, Snapshot) error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		encode = WriteJSON
	case "yaml", "yml":
		encode = WriteYAML
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	defer file.Close()

	if err := encode(file, s); err != nil {
		return fmt.Errorf("error writing export file: %w", err)
	}
	return file.Close()
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating export directory: %w", err)
		}
	}
	return nil
}
