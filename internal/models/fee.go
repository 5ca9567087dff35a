package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee is a row of the fees table. Status only ever holds OPEN or PAID.
type Fee struct {
	FeeID           string          `db:"fee_id"`
	MemberID        string          `db:"member_id"`
	MemberNumber    string          `db:"member_number"`
	MemberFirstName string          `db:"member_first_name"`
	MemberLastName  string          `db:"member_last_name"`
	PeriodStart     time.Time       `db:"period_start"`
	PeriodEnd       time.Time       `db:"period_end"`
	DueDate         time.Time       `db:"due_date"`
	Amount          decimal.Decimal `db:"amount"`
	PaymentMethod   string          `db:"payment_method"`
	Status          string          `db:"status"`
	PaidAt          *time.Time      `db:"paid_at"`
	HasMandate      bool            `db:"has_mandate"`
	SepaBatchRef    *string         `db:"sepa_batch_ref"`
	AuditFields
}
