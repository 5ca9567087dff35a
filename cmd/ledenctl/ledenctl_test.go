package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFees = `fees:
  - feeID: fee-7
    memberNumber: "0007"
    firstName: Jan
    lastName: Peeters
    periodStart: 2026-01-01
    periodEnd: 2026-12-31
    amount: "30.00"
    method: SEPA
    hasMandate: true
  - feeID: fee-8
    memberNumber: "0008"
    firstName: An
    lastName: Claes
    periodStart: 2026-01-01
    periodEnd: 2026-12-31
    amount: "45.50"
    method: overschrijving
  - feeID: fee-9
    memberNumber: "0009"
    periodStart: 2026-01-01
    periodEnd: 2026-12-31
    amount: "30.00"
    method: CASH
    paidAt: 2026-03-01T10:00:00Z
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseFees_YAMLDefaults(t *testing.T) {
	fees, err := parseFees([]byte(testFees), 15)
	require.NoError(t, err)
	require.Len(t, fees, 3)

	jan := fees[0]
	assert.Equal(t, "fee-7", jan.FeeID)
	assert.Equal(t, "0007", jan.MemberID, "member ID falls back to the member number")
	assert.Equal(t, "Jan Peeters", jan.MemberName())
	assert.Equal(t, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), jan.DueDate)
	assert.True(t, decimal.RequireFromString("30").Equal(jan.Amount))
	assert.Equal(t, domain.FeeOpen, jan.Status)

	assert.Equal(t, domain.MethodTransfer, fees[1].Method)

	paid := fees[2]
	assert.Equal(t, domain.FeePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), *paid.PaidAt)
}

func TestParseFees_JSON(t *testing.T) {
	raw := `{"fees": [{"memberNumber": "0010", "periodStart": "2026-01-01", "periodEnd": "2026-06-30", "dueDate": "2026-07-31", "amount": "12.5", "method": "BANCONTACT"}]}`

	fees, err := parseFees([]byte(raw), 15)
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.NotEmpty(t, fees[0].FeeID)
	assert.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), fees[0].DueDate)
	assert.Equal(t, "12.50", fees[0].Amount.StringFixed(2))
}

func TestParseFees_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bad amount", `fees: [{periodStart: 2026-01-01, periodEnd: 2026-12-31, amount: "abc", method: CASH}]`, "invalid amount"},
		{"bad date", `fees: [{periodStart: 01-01-2026, periodEnd: 2026-12-31, amount: "5", method: CASH}]`, "invalid periodStart"},
		{"unknown method", `fees: [{periodStart: 2026-01-01, periodEnd: 2026-12-31, amount: "5", method: PAYPAL}]`, "unknown payment method"},
		{"batch ref on cash fee", `fees: [{periodStart: 2026-01-01, periodEnd: 2026-12-31, amount: "5", method: CASH, sepaBatchRef: SEPA-1}]`, "requires payment method SEPA"},
		{"duplicate id", `fees: [{feeID: a, periodStart: 2026-01-01, periodEnd: 2026-12-31, amount: "5", method: CASH}, {feeID: a, periodStart: 2026-01-01, periodEnd: 2026-12-31, amount: "5", method: CASH}]`, "duplicate feeID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFees([]byte(tt.raw), 15)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStatementFormat(t *testing.T) {
	f, err := statementFormat("", "export.CSV")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCSV, f)

	f, err = statementFormat("", "statement.sta")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatMT940, f)

	f, err = statementFormat("csv", "statement.sta")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCSV, f)

	_, err = statementFormat("camt053", "statement.xml")
	assert.Error(t, err)
}

func TestReconcileCommand(t *testing.T) {
	dir := t.TempDir()
	feesPath := writeFile(t, dir, "fees.yaml", testFees)
	statementPath := writeFile(t, dir, "export.csv", "date,amount,description\n"+
		"2026-10-01,30.00,Lidgeld 0007\n"+
		"2026-10-02,45.50,overschrijving\n"+
		"2026-10-03,99.99,onbekend\n")
	xlsxPath := filepath.Join(dir, "report.xlsx")

	out, err := execute(t, "reconcile", "--fees", feesPath, "--xlsx", xlsxPath, statementPath)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "certain")
	assert.Contains(t, lines[0], "0007 Jan Peeters")
	assert.Contains(t, lines[1], "possible")
	assert.Contains(t, lines[1], "0008 An Claes")
	assert.Contains(t, lines[2], "unknown")
	assert.Contains(t, out, "3 transaction(s): 1 certain, 1 possible, 1 unknown")
	assert.Contains(t, out, "line 4: 99.99 onbekend")

	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReconcileCommand_RequiresFees(t *testing.T) {
	_, err := execute(t, "reconcile", "statement.sta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fees")
}

func TestSepaCommand(t *testing.T) {
	dir := t.TempDir()
	feesPath := writeFile(t, dir, "fees.yaml", testFees)
	outDir := filepath.Join(dir, "batches")
	execDate := time.Now().AddDate(0, 0, 14).Format(time.DateOnly)

	out, err := execute(t, "sepa", "--fees", feesPath, "--execution-date", execDate, "--out", outDir,
		"--creditor-name", "Vereniging", "--creditor-iban", "BE68 5390 0754 7034", "--creditor-id", "BE00ZZZ0123456789")
	require.NoError(t, err)

	assert.Contains(t, out, "Fees:           1")
	assert.Contains(t, out, "Total:          EUR 30.00")
	assert.Contains(t, out, "Execution date: "+execDate)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), domain.SepaBatchRefPrefix))

	body, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(body), "pain.008.001.02")
	assert.Contains(t, string(body), "BE68539007547034")
}

func TestSepaCommand_PastExecutionDate(t *testing.T) {
	dir := t.TempDir()
	feesPath := writeFile(t, dir, "fees.yaml", testFees)

	_, err := execute(t, "sepa", "--fees", feesPath, "--execution-date", "2020-01-01", "--out", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in the past")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}
