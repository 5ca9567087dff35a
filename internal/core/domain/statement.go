package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementFormat identifies the layout of an imported bank statement.
type StatementFormat string

const (
	FormatCSV   StatementFormat = "CSV"
	FormatMT940 StatementFormat = "MT940"
)

// ParseStatementFormat normalises user input such as "mt940" or "csv".
func ParseStatementFormat(s string) (StatementFormat, error) {
	switch f := StatementFormat(strings.ToUpper(strings.TrimSpace(s))); f {
	case FormatCSV, FormatMT940:
		return f, nil
	}
	return "", fmt.Errorf("unsupported statement format %q", s)
}

// BankTransaction is one line item of an imported statement. It only lives for
// the duration of a reconciliation session.
type BankTransaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`      // always positive
	Description string          `json:"description"`
	Debit       bool            `json:"debit"` // outgoing money; never matched to a fee
	Line        int             `json:"line"`  // 1-based line of the source file
}

// ParseWarning describes input the parser could not fully interpret.
type ParseWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
