// internal/cli/show.go
package codon

import "github.com/spf13/cobra"

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect how codon will run",
	Long: `Inspect the settings a run would use. 'show config' prints the merged
result of the config file, its defaults and any command-line flags.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
