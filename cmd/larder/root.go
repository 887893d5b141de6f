// Root command for the larder CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// configListenAddr holds the listen_addr value loaded from config.yaml.
var configListenAddr string

// aiSettings holds the ai.* values loaded from config.yaml.
var aiSettings aiConfig

var rootCmd = &cobra.Command{
	Use:     "larder",
	Short:   "Larder is a local-first pantry ledger",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configListenAddr = cfg.GetString(cfgKeyListenAddr)
		aiSettings = aiConfig{
			BaseURL:     cfg.GetString(cfgKeyAIBaseURL),
			APIKey:      cfg.GetString(cfgKeyAIAPIKey),
			TextModel:   cfg.GetString(cfgKeyAITextModel),
			VisionModel: cfg.GetString(cfgKeyAIVisionModel),
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.larder)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.larder-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(wasteCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveDataDir returns the data directory path with precedence:
// --data-dir flag > config.yaml data_dir > LARDER_DATA_DIR env >
// default $(CWD)/.larder-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory with precedence:
// --config-dir flag > LARDER_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
