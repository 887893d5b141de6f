// Init command: create the config and data directories and the schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the larder storage",
	Long: `Init creates the configuration directory with a default config.yaml
and the data directory with an empty database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config dir and config.yaml were created by PersistentPreRunE;
		// attaching creates the data dir and schema.
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		fmt.Printf("larder initialized (data dir: %s)\n", dataDir)
		return nil
	},
}
