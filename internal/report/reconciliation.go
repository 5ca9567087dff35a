// Package report renders reconciliation sessions as XLSX workbooks.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet  = "Resultaten"
	WarningsSheet = "Waarschuwingen"
)

var resultHeader = []any{"Regel", "Datum", "Bedrag", "Af/Bij", "Omschrijving", "Zekerheid", "Lidnummer", "Lid", "Vervaldatum"}

// ReconciliationWorkbook renders a session as an XLSX document.
func ReconciliationWorkbook(s *domain.ReconciliationSession) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReconciliation(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReconciliation writes the workbook for s to w. The first sheet lists
// every transaction with its match; the second lists parse warnings.
func WriteReconciliation(w io.Writer, s *domain.ReconciliationSession) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(WarningsSheet); err != nil {
		return fmt.Errorf("failed to create warnings sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	if err := writeResults(f, s, bold, money); err != nil {
		return err
	}
	if err := writeWarnings(f, s, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, s *domain.ReconciliationSession, bold, money int) error {
	if err := f.SetSheetRow(ResultsSheet, "A1", &resultHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", "I1", bold); err != nil {
		return err
	}

	for i, r := range s.Results {
		row := i + 2
		tx := r.Transaction
		direction := "Bij"
		if tx.Debit {
			direction = "Af"
		}
		var date any
		if !tx.Date.IsZero() {
			date = tx.Date.Format("2006-01-02")
		}
		values := []any{tx.Line, date, tx.Amount.InexactFloat64(), direction, tx.Description, r.Confidence.Label()}
		if r.Match != nil {
			values = append(values, r.Match.MemberNumber, r.Match.MemberName(), r.Match.DueDate.Format("2006-01-02"))
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		amountCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellStyle(ResultsSheet, amountCell, amountCell, money); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ResultsSheet, "E", "E", 50); err != nil {
		return err
	}
	return f.SetColWidth(ResultsSheet, "H", "H", 30)
}

func writeWarnings(f *excelize.File, s *domain.ReconciliationSession, bold int) error {
	if err := f.SetSheetRow(WarningsSheet, "A1", &[]any{"Regel", "Waarschuwing"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(WarningsSheet, "A1", "B1", bold); err != nil {
		return err
	}
	for i, w := range s.Warnings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(WarningsSheet, cell, &[]any{w.Line, w.Message}); err != nil {
			return err
		}
	}
	return f.SetColWidth(WarningsSheet, "B", "B", 80)
}
