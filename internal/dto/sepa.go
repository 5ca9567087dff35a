package dto

import (
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SepaPreviewResponse shows what a new batch would contain.
type SepaPreviewResponse struct {
	Eligible            []FeeResponse   `json:"eligible"`
	EligibleCount       int             `json:"eligibleCount"`
	TotalAmount         decimal.Decimal `json:"totalAmount" swaggertype:"string"`
	MissingMandateCount int             `json:"missingMandateCount"`
	AlreadyBatchedCount int             `json:"alreadyBatchedCount"`
	Warnings            []string        `json:"warnings"`
}

// PrepareSepaBatchRequest asks for a new pending batch.
type PrepareSepaBatchRequest struct {
	ExecutionDate string `json:"executionDate" binding:"required,datetime=2006-01-02" example:"2026-11-01"`
}

// SepaBatchResponse describes a pending or confirmed batch.
type SepaBatchResponse struct {
	BatchRef      string          `json:"batchRef"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExecutionDate string          `json:"executionDate"`
	NumberOfTxs   int             `json:"numberOfTxs"`
	TotalAmount   decimal.Decimal `json:"totalAmount" swaggertype:"string"`
	Fees          []FeeResponse   `json:"fees"`
	Warnings      []string        `json:"warnings"`
	FileName      string          `json:"fileName"`
}

// ToSepaPreviewResponse converts an eligibility split.
func ToSepaPreviewResponse(e *domain.SepaEligibility, now time.Time) SepaPreviewResponse {
	total := decimal.Zero
	for _, f := range e.Eligible {
		total = total.Add(f.Amount)
	}
	return SepaPreviewResponse{
		Eligible:            ToFeeResponses(e.Eligible, now),
		EligibleCount:       len(e.Eligible),
		TotalAmount:         total.Round(2),
		MissingMandateCount: len(e.MissingMandate),
		AlreadyBatchedCount: len(e.AlreadyBatched),
		Warnings:            e.Warnings,
	}
}

// ToSepaBatchResponse converts a batch without its XML body.
func ToSepaBatchResponse(b *domain.SepaBatch, now time.Time) SepaBatchResponse {
	warnings := b.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return SepaBatchResponse{
		BatchRef:      b.BatchRef,
		CreatedAt:     b.CreatedAt,
		ExecutionDate: b.ExecutionDate.Format("2006-01-02"),
		NumberOfTxs:   len(b.Fees),
		TotalAmount:   b.TotalAmount,
		Fees:          ToFeeResponses(b.Fees, now),
		Warnings:      warnings,
		FileName:      b.FileName(),
	}
}
