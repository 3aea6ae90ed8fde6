// Command dashctl runs dashboard operations from a terminal: the daily
// sync, ad hoc call log summaries and the reference tables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "dashctl",
		Short: "Agent performance dashboard operations",
		Long: `Agent performance dashboard operations

Run the daily activity sync, build call log summaries and inspect the
reference tables using the same configuration as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				level = zerolog.WarnLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSyncCmd(),
		newSummaryCmd(),
		newAgentsCmd(),
		newDispositionsCmd(),
	)
	return rootCmd
}

// loadConfig reads the server configuration from the environment and .env
func loadConfig() (*config.Config, error) {
	return config.Load()
}
