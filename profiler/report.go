package profiler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Format selects how Render lays out results.
type Format int

const (
	// FormatPlain renders fixed-width text.
	FormatPlain Format = iota
	// FormatHTML renders the plain text inside a preformatted HTML block.
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	default:
		return "plain"
	}
}

// ParseFormat maps "plain", "text" or "html" to a Format. An empty string is plain.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text":
		return FormatPlain, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatPlain, fmt.Errorf("unknown report format %q", s)
	}
}

const (
	headingFmt = "%20s  %20s  \n"
	sectionFmt = "%19s\n"
	markerFmt  = "%19s  %20.12f\n"
	memoryFmt  = "%19s  %12s %10s\n"
)

var htmlReport = template.Must(template.New("results").Parse(
	`<pre class="benchmarkResults">{{range .}}{{.}}<br />
{{end}}</pre>`))

// Render writes the results of the last run to w.
func (p *Profiler) Render(w io.Writer, format Format) error {
	text := p.renderText()
	if format != FormatHTML {
		_, err := io.WriteString(w, text)
		return err
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return htmlReport.Execute(w, lines)
}

// RenderString returns the rendered results.
func (p *Profiler) RenderString(format Format) (string, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *Profiler) renderText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tests started at: %s\n", p.state.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(&b, "Total iterations: %d\n\n", p.state.TotalIterations)

	human := p.opts.FormatMemoryUsage
	for _, name := range p.done {
		r := p.results[name]

		fmt.Fprintf(&b, headingFmt, r.Name, "Iterations: "+strconv.Itoa(r.Iterations))

		fmt.Fprintf(&b, sectionFmt, "Timers:")
		for _, t := range r.Timers {
			fmt.Fprintf(&b, markerFmt, t.Name, t.Average.Seconds())
		}
		fmt.Fprintf(&b, markerFmt, TotalName, r.Total.Seconds())

		if len(r.Checkpoints) > 0 {
			b.WriteString("\n")
			fmt.Fprintf(&b, sectionFmt, "Checkpoints:")
			for _, c := range r.Checkpoints {
				fmt.Fprintf(&b, markerFmt, c.Name, c.Average.Seconds())
			}
		}

		if len(r.Memory) > 0 {
			b.WriteString("\n")
			fmt.Fprintf(&b, memoryFmt, "Memory Usage:", "current", "real")
			for _, m := range r.Memory {
				fmt.Fprintf(&b, memoryFmt, m.Name, formatMemory(m.Current, human), formatMemory(m.Real, human))
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

// formatMemory renders a byte count either raw or in whole B, KB or MB.
func formatMemory(n float64, human bool) string {
	n = math.Round(n)
	if !human {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return FormatBytes(n)
}

// FormatBytes renders n bytes as "<n>B", "<n> KB" or "<n> MB", rounded to the nearest whole unit.
func FormatBytes(n float64) string {
	switch {
	case math.Round(n) < 1024:
		return fmt.Sprintf("%.0fB", math.Round(n))
	case math.Round(n/1024) < 1024:
		return fmt.Sprintf("%.0f KB", math.Round(n/1024))
	default:
		return fmt.Sprintf("%.0f MB", math.Round(n/(1024*1024)))
	}
}
