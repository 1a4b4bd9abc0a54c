package codon

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/codon/internal/export"
	"github.com/mwiater/codon/internal/logging"
	"github.com/mwiater/codon/internal/suites"
	"github.com/mwiater/codon/profiler"
	"github.com/spf13/cobra"
)

var (
	newProfiler  = profiler.New
	writeExport  = export.Write
	writeMetrics = export.WritePrometheus
)

var summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func runSuites(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	names := args
	if len(names) == 0 {
		names = cfg.Suites
	}
	selected, err := suites.Lookup(names...)
	if err != nil {
		return err
	}

	format, err := cfg.ReportFormat()
	if err != nil {
		return err
	}

	p := newProfiler(
		profiler.WithOptions(cfg.ProfilerOptions()),
		profiler.WithLogger(logging.LogRun),
	)
	if err := p.Merge(cfg.Options); err != nil {
		return fmt.Errorf("profiler options: %w", err)
	}
	if err := suites.Register(p, selected, cfg.Iterations); err != nil {
		return err
	}

	suiteNames := make([]string, 0, len(selected))
	for _, s := range selected {
		suiteNames = append(suiteNames, s.Name)
	}
	logging.LogEvent("Running suites: %s", strings.Join(suiteNames, ", "))

	if err := p.Run(); err != nil {
		return fmt.Errorf("run suites: %w", err)
	}

	if err := p.Render(cmd.OutOrStdout(), format); err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	status := cmd.ErrOrStderr()
	printSummary(status, p)

	if cfg.ExportPath != "" || cfg.MetricsFile != "" {
		snapshot := export.FromProfiler(p)
		if cfg.ExportPath != "" {
			if err := writeExport(cfg.ExportPath, cfg.ExportFormatOrDefault(), snapshot); err != nil {
				return err
			}
			printStatus(status, "Results written to %s", cfg.ExportPath)
		}
		if cfg.MetricsFile != "" {
			if err := writeMetrics(cfg.MetricsFile, snapshot); err != nil {
				return err
			}
			printStatus(status, "Metrics written to %s", cfg.MetricsFile)
		}
	}

	return nil
}

func printSummary(w io.Writer, p *profiler.Profiler) {
	state := p.State()
	line := fmt.Sprintf("%d test(s), %d iteration(s) in %s (tare %s)",
		len(p.OrderedResults()), state.TotalIterations, state.EndedAt.Sub(state.StartedAt), p.Tare())
	fmt.Fprintln(w, summaryStyle.Render(line))
}

func printStatus(w io.Writer, format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
	logging.LogEvent(format, args...)
}
