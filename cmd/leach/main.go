package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nvandessel/leach/internal/logging"
	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leach",
		Short: "LEACH clusterhead election simulator",
		Long: `leach simulates the clusterhead election of the LEACH protocol for
wireless sensor networks.

Each round every node draws a random number and becomes clusterhead when
the draw is at or below the round's threshold and it is not cooling down
from a recent election.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: info, debug or trace (default from config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newThresholdCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// resolveLogLevel prefers --log-level over the configured level.
func resolveLogLevel(cmd *cobra.Command, configured string) string {
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		return lvl
	}
	return configured
}

// newCmdLogger builds the operational logger on the command's stderr.
func newCmdLogger(cmd *cobra.Command, level string) *slog.Logger {
	return logging.NewLogger(level, cmd.ErrOrStderr())
}
