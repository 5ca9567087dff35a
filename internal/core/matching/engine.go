// Package matching pairs bank transactions with open membership fees and
// turns confirmed pairs into payments.
package matching

import (
	"regexp"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// MemberNumberTokens returns the member numbers referenced in a description,
// in order of appearance. A member number is a run of exactly four digits
// starting with "000".
func MemberNumberTokens(description string) []string {
	var tokens []string
	for _, run := range digitRun.FindAllString(description, -1) {
		if len(run) == 4 && run[:3] == "000" {
			tokens = append(tokens, run)
		}
	}
	return tokens
}

// GuessMatches proposes one result per transaction, in input order. Neither
// argument is modified and fees in the results are copies.
//
// A transaction is matched with ConfidenceCertain when a member number in its
// description identifies exactly one open fee with the same amount. Otherwise
// it is matched with ConfidencePossible when exactly one open fee has the
// amount. Anything else, including debit lines, is ConfidenceUnknown.
func GuessMatches(txs []domain.BankTransaction, fees []domain.Fee) []domain.MatchResult {
	open := make([]domain.Fee, 0, len(fees))
	for _, f := range fees {
		if f.IsOpen() {
			open = append(open, f)
		}
	}

	results := make([]domain.MatchResult, len(txs))
	for i, tx := range txs {
		results[i] = guess(tx, open)
	}
	return results
}

func guess(tx domain.BankTransaction, open []domain.Fee) domain.MatchResult {
	res := domain.MatchResult{Transaction: tx, Confidence: domain.ConfidenceUnknown}
	if tx.Debit {
		return res
	}

	for _, token := range MemberNumberTokens(tx.Description) {
		if fee, ok := unique(open, func(f domain.Fee) bool {
			return f.MemberNumber == token && domain.AmountsMatch(f.Amount, tx.Amount)
		}); ok {
			res.Match = &fee
			res.Confidence = domain.ConfidenceCertain
			return res
		}
	}

	if fee, ok := unique(open, func(f domain.Fee) bool {
		return domain.AmountsMatch(f.Amount, tx.Amount)
	}); ok {
		res.Match = &fee
		res.Confidence = domain.ConfidencePossible
	}
	return res
}

// unique returns the only fee satisfying pred.
func unique(fees []domain.Fee, pred func(domain.Fee) bool) (domain.Fee, bool) {
	var (
		found domain.Fee
		n     int
	)
	for _, f := range fees {
		if pred(f) {
			n++
			if n > 1 {
				return domain.Fee{}, false
			}
			found = f
		}
	}
	return found, n == 1
}
