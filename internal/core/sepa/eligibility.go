// Package sepa selects fees for direct debit and renders pain.008 batches.
package sepa

import (
	"fmt"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// SelectEligible keeps open SEPA fees that carry a mandate and are not yet part
// of a batch. SEPA fees left out for a missing mandate or an earlier batch are
// listed separately and counted in the warnings. Fees with another payment
// method, or already paid, are ignored.
func SelectEligible(fees []domain.Fee) domain.SepaEligibility {
	out := domain.SepaEligibility{
		Eligible:       []domain.Fee{},
		MissingMandate: []domain.Fee{},
		AlreadyBatched: []domain.Fee{},
		Warnings:       []string{},
	}
	for _, f := range fees {
		if f.Method != domain.MethodSEPA || !f.IsOpen() {
			continue
		}
		switch {
		case !f.HasMandate:
			out.MissingMandate = append(out.MissingMandate, f)
		case f.SepaBatchRef != nil:
			out.AlreadyBatched = append(out.AlreadyBatched, f)
		default:
			out.Eligible = append(out.Eligible, f)
		}
	}

	if n := len(out.MissingMandate); n > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d SEPA fee(s) without mandate cannot be collected", n))
	}
	if n := len(out.AlreadyBatched); n > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d SEPA fee(s) are already part of an earlier batch", n))
	}
	if len(out.Eligible) == 0 {
		out.Warnings = append(out.Warnings, "no fees are eligible for direct debit")
	}
	return out
}
