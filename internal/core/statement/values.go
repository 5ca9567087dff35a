package statement

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02.01.2006",
	"20060102",
	"060102",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseAmount reads amounts as written by Belgian and Dutch banks: "1.234,56",
// "1234,56", "1,234.56" and "-30.00" are all accepted. The separator that
// occurs last is taken as the decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "EUR")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSuffix(s, "EUR")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}
