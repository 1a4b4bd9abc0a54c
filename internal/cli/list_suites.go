package codon

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/codon/internal/suites"
	"github.com/spf13/cobra"
)

// suitesCmd implements 'list suites', which prints the built-in workloads.
var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "List the built-in suites and their default iterations",
	Run: func(cmd *cobra.Command, args []string) {
		runListSuites(cmd.OutOrStdout())
	},
}

func init() {
	listCmd.AddCommand(suitesCmd)
}

func runListSuites(out io.Writer) {
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	all := suites.All()
	width := 0
	for _, s := range all {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}

	fmt.Fprintln(out, "Suites:")
	for _, s := range all {
		name := nameStyle.Width(width + 2).Render(s.Name)
		fmt.Fprintf(out, "  %s%s\n", name, detailStyle.Render(fmt.Sprintf("%4d  %s", s.Iterations, s.Description)))
	}
}
