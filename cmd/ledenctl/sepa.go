package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/adapters/memory"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/core/services"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type sepaOptions struct {
	feesPath      string
	executionDate string
	outDir        string
	dueDays       int
}

// creditorFlags maps each creditor flag to the environment key the server reads.
var creditorFlags = map[string]string{
	"creditor-name": "SEPA_CREDITOR_NAME",
	"creditor-iban": "SEPA_CREDITOR_IBAN",
	"creditor-bic":  "SEPA_CREDITOR_BIC",
	"creditor-id":   "SEPA_CREDITOR_ID",
}

func newSepaCmd() *cobra.Command {
	opts := sepaOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sepa",
		Short: "Write a pain.008 direct debit batch for the eligible fees",
		Long: `Selects the open SEPA fees with a mandate that are not yet batched and writes
them as {batchRef}.xml. The fee file is not modified.

Creditor details come from the flags or from SEPA_CREDITOR_NAME, SEPA_CREDITOR_IBAN,
SEPA_CREDITOR_BIC and SEPA_CREDITOR_ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSepa(cmd, opts, creditorFrom(v))
		},
	}

	cmd.Flags().StringVar(&opts.feesPath, "fees", "", "Fee file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.executionDate, "execution-date", "", "Requested collection date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "Directory for the batch file")
	cmd.Flags().IntVar(&opts.dueDays, "due-days", 15, "Days after the period end for fees without dueDate")
	for flag, key := range creditorFlags {
		cmd.Flags().String(flag, "", "Overrides "+key)
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
		_ = v.BindEnv(key)
	}
	_ = cmd.MarkFlagRequired("fees")
	_ = cmd.MarkFlagRequired("execution-date")
	return cmd
}

func creditorFrom(v *viper.Viper) domain.SepaCreditor {
	return domain.SepaCreditor{
		Name:       v.GetString("SEPA_CREDITOR_NAME"),
		IBAN:       strings.ReplaceAll(v.GetString("SEPA_CREDITOR_IBAN"), " ", ""),
		BIC:        v.GetString("SEPA_CREDITOR_BIC"),
		CreditorID: v.GetString("SEPA_CREDITOR_ID"),
	}
}

func runSepa(cmd *cobra.Command, opts sepaOptions, creditor domain.SepaCreditor) error {
	ctx := cmd.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	executionDate, err := time.Parse(time.DateOnly, opts.executionDate)
	if err != nil {
		return fmt.Errorf("invalid --execution-date %q, expected YYYY-MM-DD", opts.executionDate)
	}
	fees, err := loadFees(opts.feesPath, opts.dueDays)
	if err != nil {
		return err
	}

	svc := services.NewSepaExportService(memory.NewFeeRepository(fees...), memory.NewPendingBatchStore(time.Minute), creditor)
	batch, err := svc.PrepareBatch(ctx, executionDate, cliUser)
	if err != nil {
		return err
	}
	for _, w := range batch.Warnings {
		logger.Warn("SEPA export warning", slog.String("batch_ref", batch.BatchRef), slog.String("warning", w))
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(opts.outDir, batch.FileName())
	if err := os.WriteFile(path, batch.XML, 0o644); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch:          %s\n", batch.BatchRef)
	fmt.Fprintf(out, "Execution date: %s\n", batch.ExecutionDate.Format(time.DateOnly))
	fmt.Fprintf(out, "Fees:           %d\n", len(batch.Fees))
	fmt.Fprintf(out, "Total:          EUR %s\n", batch.TotalAmount.StringFixed(2))
	fmt.Fprintf(out, "Written to:     %s\n", path)
	return nil
}
