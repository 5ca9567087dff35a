package main

import (
	"log/slog"

	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cliUser is recorded as the acting user by the services.
const cliUser = "ledenctl"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "ledenctl",
		Short: "Offline tooling for membership fee administration",
		Long: `ledenctl reconciles bank statements and prepares SEPA direct debit
batches from a fee file (YAML or JSON), without a database.

Example Usage:
  ledenctl reconcile --fees fees.yaml statement.sta
  ledenctl reconcile --fees fees.yaml --format CSV --xlsx report.xlsx export.csv
  ledenctl sepa --fees fees.yaml --execution-date 2026-11-01 --out batches/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// SEPA_CREDITOR_* may live in the same .env as the server's settings.
			_ = godotenv.Load()

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(middleware.WithLogger(cmd.Context(), logger))
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(newReconcileCmd(), newSepaCmd(), newVersionCmd())
	return root
}
