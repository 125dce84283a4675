// Root command for the strata CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strata/internal/paths"
	"github.com/mesh-intelligence/strata/pkg/strata"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
)

// cliConfig holds the configuration loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var cliConfig *cliSettings

var rootCmd = &cobra.Command{
	Use:     "strata",
	Short:   "Strata is a versioned content-tree store",
	Version: strata.Version,
	Long: `Strata stores tree-shaped content as typed, schema-validated assets.
Every asset is addressable, every modification is recorded as a change
entry, and superseded revisions stay reachable through revision chains.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		cliConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.strata-db)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(rebuildCmd)
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > STRATA_DATA_DIR env > default $(CWD)/.strata-db.
func resolveDataDir() (string, error) {
	configValue := ""
	if cliConfig != nil {
		configValue = cliConfig.DataDir
	}
	return paths.ResolveDataDir(flagDataDir, configValue)
}

// resolveConfigDir returns the configuration directory following the precedence:
// --config-dir flag > STRATA_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
