package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// AmountTolerance is the absolute difference under which two amounts are
// considered equal when matching bank lines to fees (currency rounding).
var AmountTolerance = decimal.NewFromFloat(0.01)

// AmountsMatch reports whether a and b differ by less than AmountTolerance.
func AmountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(AmountTolerance)
}
