package matching

import (
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// ApplyConfirmedMatches marks the fee of every resolved result as paid on the
// transaction date.
//
// Results with ConfidenceUnknown, without a fee, or without a readable
// transaction date are returned as unresolved. A fee that is already paid, or
// that an earlier result in the same call already paid, is reported as a
// conflict and paid only once.
func ApplyConfirmedMatches(results []domain.MatchResult) domain.ReconciliationSummary {
	summary := domain.ReconciliationSummary{
		Applied:    []domain.Fee{},
		Unresolved: []domain.MatchResult{},
		Conflicts:  []domain.MatchResult{},
		Skipped:    []domain.MatchResult{},
	}
	paid := make(map[string]struct{})

	for _, r := range results {
		if !r.Confidence.IsResolved() || r.Match == nil || r.Transaction.Date.IsZero() {
			summary.Unresolved = append(summary.Unresolved, r)
			continue
		}
		if _, dup := paid[r.Match.FeeID]; dup || !r.Match.IsOpen() {
			summary.Conflicts = append(summary.Conflicts, r)
			continue
		}
		paid[r.Match.FeeID] = struct{}{}
		summary.Applied = append(summary.Applied, r.Match.MarkPaid(r.Transaction.Date))
	}
	return summary
}
