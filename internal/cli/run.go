package codon

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd implements 'run', which profiles the built-in suites and prints the report.
var runCmd = &cobra.Command{
	Use:   "run [suite...]",
	Short: "Profile built-in suites and print the averaged results",
	Long:  `Run registers the named suites (all of them, or the config's "suites", when none are given), runs each for its iteration count and prints the results. Use 'codon list suites' to see what is available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuites(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("iterations", "n", 0, "override every suite's iteration count (0 = suite default)")
	runCmd.Flags().StringP("format", "f", "plain", "report format: plain or html")
	runCmd.Flags().StringP("export", "e", "", "write the results to this file")
	runCmd.Flags().String("exportFormat", "", "export format: json or yaml (default json)")
	runCmd.Flags().String("metricsFile", "", "write a Prometheus textfile with the averages")

	for _, name := range []string{"iterations", "format", "export", "exportFormat", "metricsFile"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}
