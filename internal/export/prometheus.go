package export

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WritePrometheus writes the averages in s to path in the Prometheus text format,
// suitable for a node_exporter textfile collector.
func WritePrometheus(path string, s Snapshot) error {
	reg := prometheus.NewRegistry()

	timers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "codon_timer_seconds",
		Help: "Average duration of a timer per iteration.",
	}, []string{"test", "marker"})
	checkpoints := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "codon_checkpoint_seconds",
		Help: "Average time from the start of an iteration to a checkpoint.",
	}, []string{"test", "checkpoint"})
	memory := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "codon_memory_bytes",
		Help: "Average memory usage at a mark.",
	}, []string{"test", "mark", "kind"})
	iterations := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "codon_test_iterations",
		Help: "Iterations run per test.",
	}, []string{"test"})
	tare := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "codon_tare_seconds",
		Help: "Calibrated overhead subtracted from each total.",
	})

	reg.MustRegister(timers, checkpoints, memory, iterations, tare)

	tare.Set(s.TareSeconds)
	for _, t := range s.Tests {
		iterations.WithLabelValues(t.Name).Set(float64(t.Iterations))
		for _, timer := range t.Timers {
			timers.WithLabelValues(t.Name, timer.Name).Set(timer.Seconds)
		}
		// The implicit total wins over a user timer that shares its name.
		timers.WithLabelValues(t.Name, "total").Set(t.TotalSeconds)
		for _, cp := range t.Checkpoints {
			checkpoints.WithLabelValues(t.Name, cp.Name).Set(cp.Seconds)
		}
		for _, m := range t.Memory {
			memory.WithLabelValues(t.Name, m.Name, "current").Set(m.CurrentBytes)
			memory.WithLabelValues(t.Name, m.Name, "real").Set(m.RealBytes)
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
