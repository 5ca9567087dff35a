package statement

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// Header names accepted per column, compared case-insensitively.
var (
	dateHeaders        = []string{"date", "datum", "boekingsdatum", "valutadatum"}
	amountHeaders      = []string{"amount", "bedrag", "bedrag (eur)"}
	descriptionHeaders = []string{"description", "omschrijving", "mededeling", "mededelingen"}
	directionHeaders   = []string{"af bij", "af/bij", "debet/credit"}
)

type csvColumns struct {
	date, amount, description, direction int
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// sniffDelimiter picks ';' when the header line holds more semicolons than
// commas. Belgian and Dutch bank exports are usually semicolon separated.
func sniffDelimiter(content string) rune {
	headerLine := content
	if i := strings.IndexAny(content, "\r\n"); i >= 0 {
		headerLine = content[:i]
	}
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		return ';'
	}
	return ','
}

// parseCSV reads a header row followed by data rows. Every non-empty physical
// line after the header yields exactly one transaction, degraded to zero values
// where a field is missing or unreadable. Lines are parsed one at a time so a
// stray quote cannot swallow the rows after it.
func parseCSV(content string) ([]domain.BankTransaction, []domain.ParseWarning) {
	var warns warnings
	comma := sniffDelimiter(content)

	lines := strings.Split(content, "\n")
	next := 0
	for next < len(lines) && strings.TrimRight(lines[next], "\r") == "" {
		next++
	}
	if next == len(lines) {
		return []domain.BankTransaction{}, warns
	}
	headerLine := next + 1
	header := csvLine(strings.TrimRight(lines[next], "\r"), comma, headerLine, &warns)
	next++

	cols := csvColumns{
		date:        findColumn(header, dateHeaders),
		amount:      findColumn(header, amountHeaders),
		description: findColumn(header, descriptionHeaders),
		direction:   findColumn(header, directionHeaders),
	}
	if cols.date < 0 {
		warns.add(headerLine, "no date column in header")
	}
	if cols.amount < 0 {
		warns.add(headerLine, "no amount column in header")
	}
	if cols.description < 0 {
		warns.add(headerLine, "no description column in header")
	}

	txs := []domain.BankTransaction{}
	for ; next < len(lines); next++ {
		line := strings.TrimRight(lines[next], "\r")
		if line == "" {
			continue
		}
		record := csvLine(line, comma, next+1, &warns)
		txs = append(txs, csvRecord(record, cols, next+1, &warns))
	}
	return txs, warns
}

// csvLine parses one physical line as a single record. When the quoting is
// broken it falls back to a plain split on the delimiter and warns.
func csvLine(line string, comma rune, lineNo int, warns *warnings) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if err == nil {
		if _, extra := r.Read(); errors.Is(extra, io.EOF) {
			return record
		}
		err = errors.New("line holds more than one record")
	}

	warns.add(lineNo, "unreadable quoting, fields split positionally: %v", err)
	fields := strings.Split(line, string(comma))
	for i, f := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(f), `"`)
	}
	return fields
}

func csvRecord(record []string, cols csvColumns, line int, warns *warnings) domain.BankTransaction {
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	tx := domain.BankTransaction{Line: line}
	if v, ok := field(cols.date); ok {
		if d, err := parseDate(v); err == nil {
			tx.Date = d
		} else {
			warns.add(line, "invalid date %q", v)
		}
	} else if cols.date >= 0 {
		warns.add(line, "missing date field")
	}

	if v, ok := field(cols.amount); ok {
		if amt, err := parseAmount(v); err == nil {
			if amt.IsNegative() {
				tx.Debit = true
				amt = amt.Neg()
			}
			tx.Amount = amt
		} else {
			warns.add(line, "invalid amount %q", v)
		}
	} else if cols.amount >= 0 {
		warns.add(line, "missing amount field")
	}

	if v, ok := field(cols.description); ok {
		tx.Description = v
	}

	if v, ok := field(cols.direction); ok {
		switch strings.ToLower(v) {
		case "af", "debet", "d":
			tx.Debit = true
		}
	}
	return tx
}
