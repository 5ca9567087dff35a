package statement

import (
	"bufio"
	"strings"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

const (
	tagStatementLine = ":61:"
	tagInformation   = ":86:"
)

// parseMT940 walks the statement line by line. A :61: line opens a
// transaction; the next :86: line supplies its description and emits it.
// A :61: that is not followed by a :86: before the next :61: or the end of
// input is dropped with a warning.
func parseMT940(content string) ([]domain.BankTransaction, []domain.ParseWarning) {
	var (
		warns   warnings
		txs     = []domain.BankTransaction{}
		open    *domain.BankTransaction
		in86    bool // continuation lines extend the last emitted description
		lineNum int
	)

	dropOpen := func() {
		if open != nil {
			warns.add(open.Line, "statement line without :86: information dropped")
			open = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case strings.HasPrefix(line, tagStatementLine):
			dropOpen()
			in86 = false
			tx := parseStatementLine(strings.TrimPrefix(line, tagStatementLine), lineNum, &warns)
			open = &tx

		case strings.HasPrefix(line, tagInformation):
			in86 = false
			if open == nil {
				continue
			}
			open.Description = strings.TrimSpace(strings.TrimPrefix(line, tagInformation))
			txs = append(txs, *open)
			open = nil
			in86 = true

		case strings.HasPrefix(line, ":") || strings.HasPrefix(line, "-}") || line == "-":
			in86 = false

		default:
			if in86 && len(txs) > 0 {
				if extra := strings.TrimSpace(line); extra != "" {
					last := &txs[len(txs)-1]
					last.Description = strings.TrimSpace(last.Description + " " + extra)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		warns.add(lineNum, "statement truncated: %v", err)
	}
	dropOpen()
	return txs, warns
}

// parseStatementLine reads the :61: subfields
// YYMMDD [MMDD] C|D|RC|RD [funds code] amount ...
// Unreadable parts leave the corresponding field zero and add a warning.
func parseStatementLine(s string, line int, warns *warnings) domain.BankTransaction {
	tx := domain.BankTransaction{Line: line}
	s = strings.TrimSpace(s)

	if len(s) < 6 {
		warns.add(line, "statement line too short")
		return tx
	}
	if d, err := time.Parse("060102", s[:6]); err == nil {
		tx.Date = d
	} else {
		warns.add(line, "invalid value date %q", s[:6])
	}
	s = s[6:]

	if len(s) >= 4 && isDigits(s[:4]) {
		s = s[4:] // entry date
	}

	switch {
	case strings.HasPrefix(s, "RC"):
		tx.Debit = true
		s = s[2:]
	case strings.HasPrefix(s, "RD"):
		s = s[2:]
	case strings.HasPrefix(s, "C"):
		s = s[1:]
	case strings.HasPrefix(s, "D"):
		tx.Debit = true
		s = s[1:]
	default:
		warns.add(line, "missing debit/credit mark")
	}

	if s != "" && !isDigit(s[0]) && s[0] != ',' {
		s = s[1:] // funds code
	}

	end := 0
	for end < len(s) && (isDigit(s[end]) || s[end] == ',' || s[end] == '.') {
		end++
	}
	amt, err := parseAmount(s[:end])
	if err != nil {
		warns.add(line, "invalid amount %q", s[:end])
	} else {
		tx.Amount = amt.Abs()
	}
	if tx.Debit {
		warns.add(line, "debit line is never matched to a fee")
	}
	return tx
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
