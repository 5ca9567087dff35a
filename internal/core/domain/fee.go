package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus is the canonical lifecycle state of a membership fee.
// Only OPEN and PAID are stored; OVERDUE is derived on read.
type FeeStatus string

const (
	FeeOpen    FeeStatus = "OPEN"
	FeePaid    FeeStatus = "PAID"
	FeeOverdue FeeStatus = "OVERDUE"
)

// Label returns the Dutch display label used by the front end.
func (s FeeStatus) Label() string {
	switch s {
	case FeeOpen:
		return "Openstaand"
	case FeePaid:
		return "Betaald"
	case FeeOverdue:
		return "Vervallen"
	default:
		return string(s)
	}
}

// IsValid reports whether s is one of the canonical statuses.
func (s FeeStatus) IsValid() bool {
	return s == FeeOpen || s == FeePaid || s == FeeOverdue
}

// PaymentMethod is how a member settles a fee.
type PaymentMethod string

const (
	MethodSEPA       PaymentMethod = "SEPA"
	MethodTransfer   PaymentMethod = "OVERSCHRIJVING"
	MethodBancontact PaymentMethod = "BANCONTACT"
	MethodCash       PaymentMethod = "CASH"
)

// Label returns the Dutch display label used by the front end.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodSEPA:
		return "Domiciliëring"
	case MethodTransfer:
		return "Overschrijving"
	case MethodBancontact:
		return "Bancontact"
	case MethodCash:
		return "Contant"
	default:
		return string(m)
	}
}

// IsValid reports whether m is one of the canonical payment methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodSEPA, MethodTransfer, MethodBancontact, MethodCash:
		return true
	}
	return false
}

var (
	ErrFeePeriodInvalid   = errors.New("period start must not be after period end")
	ErrFeeDueDateInvalid  = errors.New("due date must be after the billing period")
	ErrFeeAmountInvalid   = errors.New("fee amount must be positive")
	ErrFeeBatchRefMethod  = errors.New("sepa batch reference requires payment method SEPA")
	ErrFeePaidWithoutDate = errors.New("paid fee must have a payment timestamp")
	ErrFeeMethodInvalid   = errors.New("unknown payment method")
	ErrFeeStatusInvalid   = errors.New("unknown fee status")
)

// Fee is one billing period obligation for one member.
type Fee struct {
	FeeID           string          `json:"feeID"`
	MemberID        string          `json:"memberID"`
	MemberNumber    string          `json:"memberNumber"`
	MemberFirstName string          `json:"memberFirstName"`
	MemberLastName  string          `json:"memberLastName"`
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	DueDate         time.Time       `json:"dueDate"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"method"`
	Status          FeeStatus       `json:"status"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	HasMandate      bool            `json:"hasMandate"`
	SepaBatchRef    *string         `json:"sepaBatchRef,omitempty"`
	AuditFields
}

// MemberName returns "First Last".
func (f Fee) MemberName() string {
	switch {
	case f.MemberFirstName == "":
		return f.MemberLastName
	case f.MemberLastName == "":
		return f.MemberFirstName
	}
	return f.MemberFirstName + " " + f.MemberLastName
}

// IsOpen reports whether no payment has been recorded for the fee.
func (f Fee) IsOpen() bool {
	return f.Status != FeePaid && f.PaidAt == nil
}

// OverdueFrom returns the first instant at which an unpaid fee is OVERDUE:
// midnight after the due date. The due date itself is still payable.
func (f Fee) OverdueFrom() time.Time {
	return f.DueDate.AddDate(0, 0, 1)
}

// EffectiveStatus classifies the fee at now: an unpaid fee past its due day is OVERDUE.
func (f Fee) EffectiveStatus(now time.Time) FeeStatus {
	if !f.IsOpen() {
		return FeePaid
	}
	if !now.Before(f.OverdueFrom()) {
		return FeeOverdue
	}
	return FeeOpen
}

// MarkPaid returns a copy of f with status PAID and PaidAt set to paidAt.
// The receiver is not modified and SepaBatchRef is left untouched.
func (f Fee) MarkPaid(paidAt time.Time) Fee {
	paid := f
	ts := paidAt
	paid.Status = FeePaid
	paid.PaidAt = &ts
	return paid
}

// DueDateForPeriod returns the due date of a fee whose period ends on periodEnd.
func DueDateForPeriod(periodEnd time.Time, dueDays int) time.Time {
	return periodEnd.AddDate(0, 0, dueDays)
}

// Validate checks the structural invariants of a fee.
func (f Fee) Validate() error {
	if !f.Method.IsValid() {
		return fmt.Errorf("%w: %q", ErrFeeMethodInvalid, f.Method)
	}
	if f.Status != FeeOpen && f.Status != FeePaid {
		return fmt.Errorf("%w: %q", ErrFeeStatusInvalid, f.Status)
	}
	if !f.Amount.IsPositive() {
		return ErrFeeAmountInvalid
	}
	if f.PeriodStart.After(f.PeriodEnd) {
		return ErrFeePeriodInvalid
	}
	if !f.DueDate.After(f.PeriodEnd) {
		return ErrFeeDueDateInvalid
	}
	if f.SepaBatchRef != nil && f.Method != MethodSEPA {
		return ErrFeeBatchRefMethod
	}
	if f.Status == FeePaid && f.PaidAt == nil {
		return ErrFeePaidWithoutDate
	}
	return nil
}
