package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/worldbox/worldbox/internal/apps"
	"github.com/worldbox/worldbox/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			apps.Configure(cfg.Search.FuzzyThreshold, cfg.Search.FuzzyLimit,
				cfg.Recurrence.MaxOccurrences)
			server, err := mcp.NewServer(&mcp.Config{
				Name:     "worldbox",
				Version:  version,
				LogLevel: cfg.Logging.Level,
				LogDir:   cfg.Logging.Dir,
			})
			if err != nil {
				return err
			}
			return server.Run(context.Background())
		},
	}
}
