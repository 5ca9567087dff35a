package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/ledenbeheer/internal/adapters/memory"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/core/services"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/SscSPs/ledenbeheer/internal/report"
	"github.com/spf13/cobra"
)

type reconcileOptions struct {
	feesPath string
	format   string
	xlsxPath string
	dueDays  int
}

func newReconcileCmd() *cobra.Command {
	opts := reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile [flags] STATEMENT",
		Short: "Match a bank statement against the open fees",
		Long: `Parses a CSV or MT940 statement, guesses a fee for every credit line and
prints one line per transaction with its confidence. Nothing is marked paid.

The format defaults to MT940 unless the file name ends in .csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.feesPath, "fees", "", "Fee file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Statement format: CSV or MT940")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Also write the result as an XLSX workbook")
	cmd.Flags().IntVar(&opts.dueDays, "due-days", 15, "Days after the period end for fees without dueDate")
	_ = cmd.MarkFlagRequired("fees")
	return cmd
}

func runReconcile(cmd *cobra.Command, opts reconcileOptions, statementPath string) error {
	ctx := cmd.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	format, err := statementFormat(opts.format, statementPath)
	if err != nil {
		return err
	}
	fees, err := loadFees(opts.feesPath, opts.dueDays)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(statementPath)
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	svc := services.NewReconciliationService(memory.NewFeeRepository(fees...), memory.NewSessionStore())
	session, err := svc.ImportStatement(ctx, format, filepath.Base(statementPath), content, cliUser)
	if err != nil {
		return err
	}

	for _, w := range session.Warnings {
		logger.Warn("Statement parse warning", slog.Int("line", w.Line), slog.String("warning", w.Message))
	}

	printResults(cmd.OutOrStdout(), session)

	if opts.xlsxPath != "" {
		if err := writeWorkbook(opts.xlsxPath, session); err != nil {
			return err
		}
		logger.Info("Workbook written", slog.String("path", opts.xlsxPath))
	}
	return nil
}

// statementFormat resolves the --format flag, falling back to the file extension.
func statementFormat(flag, path string) (domain.StatementFormat, error) {
	if flag != "" {
		return domain.ParseStatementFormat(flag)
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return domain.FormatCSV, nil
	}
	return domain.FormatMT940, nil
}

func printResults(out io.Writer, session *domain.ReconciliationSession) {
	var unresolved []domain.MatchResult
	for _, r := range session.Results {
		tx := r.Transaction
		sign := ""
		if tx.Debit {
			sign = "-"
		}
		member := "-"
		if r.Match != nil {
			member = fmt.Sprintf("%s %s", r.Match.MemberNumber, r.Match.MemberName())
		} else {
			unresolved = append(unresolved, r)
		}
		fmt.Fprintf(out, "%5d  %s  %10s  %-8s  %-30s  %s\n",
			tx.Line, dateOrDash(tx), sign+tx.Amount.StringFixed(2), r.Confidence, member, tx.Description)
	}

	counts := session.CountByConfidence()
	fmt.Fprintf(out, "\n%d transaction(s): %d certain, %d possible, %d unknown\n",
		len(session.Results), counts[domain.ConfidenceCertain], counts[domain.ConfidencePossible], counts[domain.ConfidenceUnknown])

	if len(unresolved) > 0 {
		fmt.Fprintln(out, "\nUnresolved:")
		for _, r := range unresolved {
			fmt.Fprintf(out, "  line %d: %s %s\n", r.Transaction.Line, r.Transaction.Amount.StringFixed(2), r.Transaction.Description)
		}
	}
}

func dateOrDash(tx domain.BankTransaction) string {
	if tx.Date.IsZero() {
		return "----------"
	}
	return tx.Date.Format("2006-01-02")
}

func writeWorkbook(path string, session *domain.ReconciliationSession) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := report.WriteReconciliation(f, session); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
