package mapping

import (
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/models"
)

// ToModelFee converts a domain Fee to a model Fee
func ToModelFee(d domain.Fee) models.Fee {
	return models.Fee{
		FeeID:           d.FeeID,
		MemberID:        d.MemberID,
		MemberNumber:    d.MemberNumber,
		MemberFirstName: d.MemberFirstName,
		MemberLastName:  d.MemberLastName,
		PeriodStart:     d.PeriodStart,
		PeriodEnd:       d.PeriodEnd,
		DueDate:         d.DueDate,
		Amount:          d.Amount,
		PaymentMethod:   string(d.Method),
		Status:          string(d.Status),
		PaidAt:          d.PaidAt,
		HasMandate:      d.HasMandate,
		SepaBatchRef:    d.SepaBatchRef,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFee converts a model Fee to a domain Fee
func ToDomainFee(m models.Fee) domain.Fee {
	return domain.Fee{
		FeeID:           m.FeeID,
		MemberID:        m.MemberID,
		MemberNumber:    m.MemberNumber,
		MemberFirstName: m.MemberFirstName,
		MemberLastName:  m.MemberLastName,
		PeriodStart:     m.PeriodStart,
		PeriodEnd:       m.PeriodEnd,
		DueDate:         m.DueDate,
		Amount:          m.Amount,
		Method:          domain.PaymentMethod(m.PaymentMethod),
		Status:          domain.FeeStatus(m.Status),
		PaidAt:          m.PaidAt,
		HasMandate:      m.HasMandate,
		SepaBatchRef:    m.SepaBatchRef,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFeeSlice converts a slice of model Fees to a slice of domain Fees
func ToDomainFeeSlice(ms []models.Fee) []domain.Fee {
	ds := make([]domain.Fee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFee(m)
	}
	return ds
}
