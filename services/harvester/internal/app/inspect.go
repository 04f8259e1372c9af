package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stoik/spf-harvester/services/harvester/internal/harvest"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Extract authentication headers from saved .eml files",
	Long:  "Runs the header extraction on raw RFC 5322 messages and writes the CSV report, without contacting Microsoft Graph",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := viper.GetString("output")
		if output == "" {
			return fmt.Errorf("missing required configuration: output")
		}

		_, err := harvest.Inspect(args, output, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
