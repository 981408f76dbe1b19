package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sitenav configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the site host, search environment and importer settings, and writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		name, _, err := cfg.Active()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (environment: %s)\n", cfgFile, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
