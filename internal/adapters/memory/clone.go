package memory

import (
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneFee(f domain.Fee) domain.Fee {
	f.PaidAt = cloneTime(f.PaidAt)
	f.SepaBatchRef = cloneString(f.SepaBatchRef)
	return f
}

func cloneFees(fees []domain.Fee) []domain.Fee {
	if fees == nil {
		return nil
	}
	out := make([]domain.Fee, len(fees))
	for i, f := range fees {
		out[i] = cloneFee(f)
	}
	return out
}

func cloneSession(s domain.ReconciliationSession) domain.ReconciliationSession {
	results := make([]domain.MatchResult, len(s.Results))
	for i, r := range s.Results {
		if r.Match != nil {
			m := cloneFee(*r.Match)
			r.Match = &m
		}
		results[i] = r
	}
	s.Results = results
	s.Warnings = append([]domain.ParseWarning(nil), s.Warnings...)
	s.OpenFees = cloneFees(s.OpenFees)
	return s
}

func cloneBatch(b domain.SepaBatch) domain.SepaBatch {
	b.Fees = cloneFees(b.Fees)
	b.XML = append([]byte(nil), b.XML...)
	b.Warnings = append([]string(nil), b.Warnings...)
	return b
}
