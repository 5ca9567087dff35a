package dto

import (
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFeeRequest defines the data needed to create a single fee.
type CreateFeeRequest struct {
	MemberID        string               `json:"memberID" binding:"required"`
	MemberNumber    string               `json:"memberNumber" binding:"required,membernumber"`
	MemberFirstName string               `json:"memberFirstName"`
	MemberLastName  string               `json:"memberLastName" binding:"required"`
	PeriodStart     time.Time            `json:"periodStart" binding:"required"`
	PeriodEnd       time.Time            `json:"periodEnd" binding:"required"`
	DueDate         *time.Time           `json:"dueDate"` // Optional, defaults to periodEnd + FEE_DUE_DAYS
	Amount          decimal.Decimal      `json:"amount" swaggertype:"string" example:"30.00"`
	Method          domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
	HasMandate      bool                 `json:"hasMandate"`
}

// GenerateFeeMember is one member to bill in a GenerateFeesRequest.
type GenerateFeeMember struct {
	MemberID     string               `json:"memberID" binding:"required"`
	MemberNumber string               `json:"memberNumber" binding:"required,membernumber"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName" binding:"required"`
	Method       domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
	HasMandate   bool                 `json:"hasMandate"`
	// Amount overrides the request amount for this member (e.g. reduced rate).
	Amount *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
}

// GenerateFeesRequest bills every listed member for one period.
type GenerateFeesRequest struct {
	PeriodStart time.Time           `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time           `json:"periodEnd" binding:"required"`
	Amount      decimal.Decimal     `json:"amount" swaggertype:"string" example:"30.00"`
	Members     []GenerateFeeMember `json:"members" binding:"required,min=1,dive"`
}

// GenerateFeesResponse lists the created fees and the member numbers that
// already had a fee for the period.
type GenerateFeesResponse struct {
	Created []FeeResponse `json:"created"`
	Skipped []string      `json:"skipped"`
}

// FeeResponse is the API view of a fee. Status is the effective status at the
// time of the response, so OVERDUE can appear.
type FeeResponse struct {
	FeeID        string               `json:"feeID"`
	MemberID     string               `json:"memberID"`
	MemberNumber string               `json:"memberNumber"`
	MemberName   string               `json:"memberName"`
	PeriodStart  time.Time            `json:"periodStart"`
	PeriodEnd    time.Time            `json:"periodEnd"`
	DueDate      time.Time            `json:"dueDate"`
	Amount       decimal.Decimal      `json:"amount" swaggertype:"string"`
	Method       domain.PaymentMethod `json:"method"`
	MethodLabel  string               `json:"methodLabel"`
	Status       domain.FeeStatus     `json:"status"`
	StatusLabel  string               `json:"statusLabel"`
	PaidAt       *time.Time           `json:"paidAt,omitempty"`
	HasMandate   bool                 `json:"hasMandate"`
	SepaBatchRef *string              `json:"sepaBatchRef,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	CreatedBy    string               `json:"createdBy"`
}

// ListFeesParams defines query parameters for listing fees.
type ListFeesParams struct {
	Status       string  `form:"status" binding:"omitempty,oneof=OPEN PAID OVERDUE"`
	Method       string  `form:"method" binding:"omitempty,paymentmethod"`
	MemberNumber string  `form:"memberNumber" binding:"omitempty,membernumber"`
	Limit        int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken    *string `form:"nextToken"`
}

// ListFeesResponse wraps a page of fees.
type ListFeesResponse struct {
	Fees      []FeeResponse `json:"fees"`
	NextToken *string       `json:"nextToken,omitempty"`
}

// ToFeeResponse converts a domain.Fee to FeeResponse, classifying it at now.
func ToFeeResponse(f *domain.Fee, now time.Time) FeeResponse {
	status := f.EffectiveStatus(now)
	return FeeResponse{
		FeeID:        f.FeeID,
		MemberID:     f.MemberID,
		MemberNumber: f.MemberNumber,
		MemberName:   f.MemberName(),
		PeriodStart:  f.PeriodStart,
		PeriodEnd:    f.PeriodEnd,
		DueDate:      f.DueDate,
		Amount:       f.Amount,
		Method:       f.Method,
		MethodLabel:  f.Method.Label(),
		Status:       status,
		StatusLabel:  status.Label(),
		PaidAt:       f.PaidAt,
		HasMandate:   f.HasMandate,
		SepaBatchRef: f.SepaBatchRef,
		CreatedAt:    f.CreatedAt,
		CreatedBy:    f.CreatedBy,
	}
}

// ToFeeResponses converts a slice of fees, never returning nil.
func ToFeeResponses(fees []domain.Fee, now time.Time) []FeeResponse {
	out := make([]FeeResponse, len(fees))
	for i := range fees {
		out[i] = ToFeeResponse(&fees[i], now)
	}
	return out
}
