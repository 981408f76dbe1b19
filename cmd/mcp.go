package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/commerce"
	"github.com/ziadkadry99/sitenav/internal/logging"
	mcpserver "github.com/ziadkadry99/sitenav/internal/mcp"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing site search suggestions, search resolution and the navigation menu to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		envName, env, err := cfg.Active()
		if err != nil {
			return err
		}

		var source nav.Source
		if cfg.ContentBase != "" {
			source = nav.NewAssembler(cfg.ContentBase, nil, commerce.NewClient(env.CommerceBase(), nil))
		}

		mcpserver.Version = Version
		srv := mcpserver.NewServer(search.NewClient(env.SearchConfig(), nil), source, env.SearchPage)

		// Stdout carries the protocol; the logger writes to stderr.
		logging.Get(0).Info("sitenav MCP server started on stdio", "environment", envName)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
