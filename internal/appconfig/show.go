package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	c := Defaults()
	if cfg != nil {
		c = *cfg
	}

	suites := "all"
	if len(c.Suites) > 0 {
		suites = strings.Join(c.Suites, ", ")
	}
	iterations := "suite default"
	if c.Iterations > 0 {
		iterations = fmt.Sprintf("%d", c.Iterations)
	}
	format := c.Format
	if format == "" {
		format = "plain"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Show Output:         %v\n", c.ShowOutput)
	fmt.Fprintf(out, "  Tare Runs:           %v\n", c.TareRuns)
	fmt.Fprintf(out, "  Format Memory Usage: %v\n", c.FormatMemoryUsage)
	fmt.Fprintf(out, "  Iterations:          %s\n", iterations)
	fmt.Fprintf(out, "  Suites:              %s\n", suites)
	fmt.Fprintf(out, "  Report Format:       %s\n", format)
	fmt.Fprintf(out, "  Log File:            %s\n", c.LogFilePath())
	if c.ExportPath != "" {
		fmt.Fprintf(out, "  Export:              %s (%s)\n", c.ExportPath, c.ExportFormatOrDefault())
	}
	if c.MetricsFile != "" {
		fmt.Fprintf(out, "  Metrics File:        %s\n", c.MetricsFile)
	}
}
