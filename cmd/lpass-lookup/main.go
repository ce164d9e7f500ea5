package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/lpass-lookup/cmd/lpass-lookup/commands"
	"github.com/systmms/lpass-lookup/internal/config"
	dserrors "github.com/systmms/lpass-lookup/internal/errors"
	"github.com/systmms/lpass-lookup/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe guarded memory if the user interrupts a lookup.
	memguard.CatchInterrupt()

	err := run()
	memguard.Purge()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders err for the terminal, replacing raw library errors
// with their user-facing form.
func formatError(err error) string {
	return "Error: " + dserrors.SimplifyError(err).Error()
}

func run() error {
	// Global flags
	var (
		configFile     string
		lpassCommand   string
		metricsFile    string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "lpass-lookup",
		Short: "Look up LastPass entries through the lpass CLI",
		Long: `lpass-lookup reads fields or whole entries from a LastPass vault by
driving the official lpass command-line client. It never stores
credentials or manages the session itself; log in with 'lpass login'.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Required = cmd.Flags().Changed("config")
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
			cfg.CommandOverride = lpassCommand
			cfg.MetricsFileOverride = metricsFile
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&lpassCommand, "lpass-command", "", "lpass executable to run (default from config, then PATH)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewLookupCommand(cfg),
		commands.NewStatusCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
