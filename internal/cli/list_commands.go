// internal/cli/list_commands.go
package codon

import "github.com/spf13/cobra"

// commandsCmd prints the codon command tree.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the codon command tree",
	Long: `Print every codon command as an indented tree: run for benchmarking suites,
list for the built-in suites and this tree, and show for the effective configuration.
Each line holds the command path and its short description.`,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}
