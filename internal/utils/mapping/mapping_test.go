package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFeeMappingKeepsStatusAndBatchRef(t *testing.T) {
	ref := "SEPA-20261101-090000"
	paid := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	m := ToModelFee(domain.Fee{
		FeeID:        "f1",
		Method:       domain.MethodSEPA,
		Status:       domain.FeePaid,
		PaidAt:       &paid,
		SepaBatchRef: &ref,
		AuditFields:  domain.AuditFields{CreatedBy: "u1"},
	})

	assert.Equal(t, "SEPA", m.PaymentMethod)
	assert.Equal(t, "PAID", m.Status)
	assert.Equal(t, "u1", m.CreatedBy)

	d := ToDomainFee(m)
	assert.Equal(t, domain.MethodSEPA, d.Method)
	assert.Equal(t, &ref, d.SepaBatchRef)
	assert.Equal(t, paid, *d.PaidAt)
}

func TestUserMappingEmail(t *testing.T) {
	assert.Nil(t, ToModelUser(domain.User{UserID: "u1"}).Email)

	m := ToModelUser(domain.User{UserID: "u1", Email: "board@example.org"})
	if assert.NotNil(t, m.Email) {
		assert.Equal(t, "board@example.org", *m.Email)
	}
	assert.Equal(t, "board@example.org", ToDomainUser(m).Email)
}
