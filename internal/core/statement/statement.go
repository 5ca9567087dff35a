// Package statement turns raw bank statement exports into bank transactions.
//
// Parsing is best effort: malformed input never fails the whole import. Lines
// that cannot be fully interpreted yield degraded records together with a
// ParseWarning so the caller can show what was skipped or guessed.
package statement

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// Parse dispatches content to the parser for format.
func Parse(format domain.StatementFormat, content string) ([]domain.BankTransaction, []domain.ParseWarning) {
	content = strings.TrimPrefix(content, "\ufeff")
	switch format {
	case domain.FormatCSV:
		return parseCSV(content)
	case domain.FormatMT940:
		return parseMT940(content)
	default:
		return nil, []domain.ParseWarning{{Message: fmt.Sprintf("unsupported statement format %q", format)}}
	}
}

type warnings []domain.ParseWarning

func (w *warnings) add(line int, format string, args ...any) {
	*w = append(*w, domain.ParseWarning{Line: line, Message: fmt.Sprintf(format, args...)})
}
