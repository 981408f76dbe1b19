package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/config"
	"github.com/ziadkadry99/sitenav/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sitenav",
	Short: "Site header, search suggestions and content import for Danaher Life Sciences",
	Long: `Sitenav serves the Danaher Life Sciences site header: the navigation
flyouts, the quote cart badge and the search box with live suggestions.
It also imports published pages into markdown for the content repository.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the config and initializes the logger at the
// configured level, or debug with --verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `sitenav init` to create a config file", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Get(logging.ParseLevel(level))
	return cfg, nil
}
