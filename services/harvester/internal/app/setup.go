package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stoik/spf-harvester/services/harvester/internal/archive"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the archive table",
	Long:  "Creates the harvested_messages table and its indexes in the database named by database.url",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := archive.Open(ctx, viper.GetString("database.url"))
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Archive setup complete. Table: %s\n", archive.TableName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
