package codon

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/codon/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runShowConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg := GetConfig()

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		_, err := pp.Fprintln(out, cfg)
		return err
	}

	appconfig.ShowConfig(out, viper.ConfigFileUsed(), cfg)
	return nil
}
