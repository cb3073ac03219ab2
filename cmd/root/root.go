// Package root contains the root command for the application.
package root

import (
	"github.com/spf13/cobra"

	"bankmerge/internal/config"
	"bankmerge/internal/logging"
)

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "bank-merge",
		Short: "Merge checking-account and credit-card spreadsheets into one categorized report.",
		Long: `bank-merge reads a checking-account ledger export and one or more
credit-card statement exports, normalizes and categorizes every transaction,
and writes a single spreadsheet with per-category subtotals and a pie chart.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bank-merge!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
		},
	}
)
