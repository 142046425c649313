package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/cmd/ccp/commands"
	"github.com/systmms/ccp-go/internal/config"
	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/internal/logging"
	"github.com/systmms/ccp-go/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", ccperrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile  string
		noColor     bool
		debug       bool
		metricsPort int
	)

	// Create config placeholder
	cfg := &config.Config{}

	var metricsServer *metrics.Server

	rootCmd := &cobra.Command{
		Use:   "ccp",
		Short: "CyberArk Central Credential Provider client",
		Long: `ccp retrieves secrets from a CyberArk Central Credential Provider over
its REST web service and prints them or injects them into commands as
ephemeral environment variables.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.Debug = debug

			if metricsPort > 0 {
				metricsServer = metrics.NewServer(metricsPort, logger)
				if err := metricsServer.Start(); err != nil {
					// Metrics are auxiliary; a busy port should not block
					// the retrieval itself.
					logger.Warn("Metrics disabled: %v", err)
					metricsServer = nil
				}
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if metricsServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = metricsServer.Stop(ctx)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "ccp.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port while the command runs (0 disables)")

	// Add commands
	rootCmd.AddCommand(
		commands.NewGetCommand(cfg),
		commands.NewPasswordCommand(cfg),
		commands.NewExecCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewSchemaCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
