package main

import (
	"context"
	"fmt"

	"github.com/nvandessel/leach/internal/config"
	"github.com/nvandessel/leach/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run leach as an MCP server over stdio",
		Long: `Serve the leach_simulate and leach_threshold tools over the Model Context
Protocol on stdin/stdout. Logs go to stderr.

Example client configuration:
  {"mcpServers": {"leach": {"command": "leach", "args": ["mcp-server"]}}}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			server := mcp.NewServer(&mcp.Config{
				Name:    "leach",
				Version: version,
				Logger:  newCmdLogger(cmd, resolveLogLevel(cmd, cfg.Logging.Level)),
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := server.Run(ctx); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}
