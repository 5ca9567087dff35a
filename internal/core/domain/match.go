package domain

import "time"

// MatchConfidence tags how a bank transaction was paired with a fee.
type MatchConfidence string

const (
	// ConfidenceCertain: member number in the description and amount agree with exactly one open fee.
	ConfidenceCertain MatchConfidence = "certain"
	// ConfidencePossible: exactly one open fee has the transaction amount.
	ConfidencePossible MatchConfidence = "possible"
	// ConfidenceManual: a user picked the fee explicitly.
	ConfidenceManual MatchConfidence = "manual"
	// ConfidenceUnknown: no fee, or more than one candidate.
	ConfidenceUnknown MatchConfidence = "unknown"
)

// Label returns the Dutch display label used by the front end.
func (c MatchConfidence) Label() string {
	switch c {
	case ConfidenceCertain:
		return "Zeker"
	case ConfidencePossible:
		return "Mogelijk"
	case ConfidenceManual:
		return "Manueel"
	default:
		return "Onbekend"
	}
}

// IsResolved reports whether a result with this confidence may be applied.
func (c MatchConfidence) IsResolved() bool {
	return c == ConfidenceCertain || c == ConfidencePossible || c == ConfidenceManual
}

// MatchResult pairs a bank transaction with zero or one fee.
type MatchResult struct {
	Transaction BankTransaction `json:"transaction"`
	Match       *Fee            `json:"match"`
	Confidence  MatchConfidence `json:"confidence"`
}

// WithManualMatch returns the result as overridden by a user. Choosing a fee
// always yields ConfidenceManual, even when it equals the engine's guess;
// choosing nothing yields ConfidenceUnknown.
func (r MatchResult) WithManualMatch(fee *Fee) MatchResult {
	out := MatchResult{Transaction: r.Transaction}
	if fee == nil {
		out.Confidence = ConfidenceUnknown
		return out
	}
	f := *fee
	out.Match = &f
	out.Confidence = ConfidenceManual
	return out
}

// ReconciliationSummary reports the outcome of applying confirmed matches.
type ReconciliationSummary struct {
	Applied    []Fee         `json:"applied"`
	Unresolved []MatchResult `json:"unresolved"`
	// Conflicts holds results whose fee was already paid, by an earlier result
	// in the same run or before the confirmation reached the store.
	Conflicts []MatchResult `json:"conflicts"`
	// Skipped holds resolved results left out of a partial confirmation.
	Skipped []MatchResult `json:"skipped"`
}

// ReconciliationSession keeps one statement import between upload and
// confirmation. It lives in memory only.
type ReconciliationSession struct {
	SessionID string          `json:"sessionID"`
	Format    StatementFormat `json:"format"`
	FileName  string          `json:"fileName"`
	Results   []MatchResult   `json:"results"`
	Warnings  []ParseWarning  `json:"warnings"`
	// OpenFees is the fee snapshot the results were guessed against; manual
	// matches must pick from it.
	OpenFees  []Fee     `json:"openFees"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FindOpenFee returns the snapshot fee with feeID.
func (s *ReconciliationSession) FindOpenFee(feeID string) (*Fee, bool) {
	for i := range s.OpenFees {
		if s.OpenFees[i].FeeID == feeID {
			return &s.OpenFees[i], true
		}
	}
	return nil, false
}

// RefreshFee replaces every copy of fee held by the session: the snapshot entry
// and the matches of the results. A fee that is no longer open leaves the
// snapshot so it cannot be picked manually.
func (s *ReconciliationSession) RefreshFee(fee Fee) {
	kept := make([]Fee, 0, len(s.OpenFees))
	for _, f := range s.OpenFees {
		switch {
		case f.FeeID != fee.FeeID:
			kept = append(kept, f)
		case fee.IsOpen():
			kept = append(kept, fee)
		}
	}
	s.OpenFees = kept
	for i := range s.Results {
		if m := s.Results[i].Match; m != nil && m.FeeID == fee.FeeID {
			f := fee
			s.Results[i].Match = &f
		}
	}
}

// CountByConfidence tallies the results per confidence.
func (s *ReconciliationSession) CountByConfidence() map[MatchConfidence]int {
	counts := map[MatchConfidence]int{
		ConfidenceCertain:  0,
		ConfidencePossible: 0,
		ConfidenceManual:   0,
		ConfidenceUnknown:  0,
	}
	for _, r := range s.Results {
		counts[r.Confidence]++
	}
	return counts
}
