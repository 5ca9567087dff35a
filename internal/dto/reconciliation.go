package dto

import (
	"mime/multipart"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImportStatementRequest is the multipart form of a statement upload.
type ImportStatementRequest struct {
	Format string                `form:"format" binding:"required,statementformat"`
	File   *multipart.FileHeader `form:"file" binding:"required" swaggerignore:"true"`
}

// TransactionResponse is the API view of a parsed bank line.
type TransactionResponse struct {
	Date        *time.Time      `json:"date,omitempty"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Description string          `json:"description"`
	Debit       bool            `json:"debit"`
	Line        int             `json:"line"`
}

// MatchResultResponse is one row of a reconciliation session.
type MatchResultResponse struct {
	Index           *int                   `json:"index,omitempty"` // position in the session; absent in summaries
	Transaction     TransactionResponse    `json:"transaction"`
	Match           *FeeResponse           `json:"match"`
	Confidence      domain.MatchConfidence `json:"confidence"`
	ConfidenceLabel string                 `json:"confidenceLabel"`
}

// ReconciliationSessionResponse describes an import awaiting confirmation.
type ReconciliationSessionResponse struct {
	SessionID string                 `json:"sessionID"`
	Format    domain.StatementFormat `json:"format"`
	FileName  string                 `json:"fileName"`
	CreatedAt time.Time              `json:"createdAt"`
	ExpiresAt time.Time              `json:"expiresAt"`
	Results   []MatchResultResponse  `json:"results"`
	Warnings  []domain.ParseWarning  `json:"warnings"`
	Counts    map[string]int         `json:"counts"`
	OpenFees  []FeeResponse          `json:"openFees"`
}

// SetManualMatchRequest assigns a fee to a result, or clears it when FeeID is null.
type SetManualMatchRequest struct {
	FeeID *string `json:"feeID"`
}

// ConfirmSessionRequest selects the results to apply. An empty list applies
// every result.
type ConfirmSessionRequest struct {
	Indexes []int `json:"indexes" binding:"omitempty,dive,min=0"`
}

// ReconciliationSummaryResponse reports what a confirmation changed.
type ReconciliationSummaryResponse struct {
	Applied    []FeeResponse         `json:"applied"`
	Unresolved []MatchResultResponse `json:"unresolved"`
	Conflicts  []MatchResultResponse `json:"conflicts"`
	Skipped    []MatchResultResponse `json:"skipped"`
}

// ToMatchResultResponse converts a result. index is nil outside a session listing.
func ToMatchResultResponse(index *int, r domain.MatchResult, now time.Time) MatchResultResponse {
	tx := TransactionResponse{
		Amount:      r.Transaction.Amount,
		Description: r.Transaction.Description,
		Debit:       r.Transaction.Debit,
		Line:        r.Transaction.Line,
	}
	if !r.Transaction.Date.IsZero() {
		d := r.Transaction.Date
		tx.Date = &d
	}
	resp := MatchResultResponse{
		Index:           index,
		Transaction:     tx,
		Confidence:      r.Confidence,
		ConfidenceLabel: r.Confidence.Label(),
	}
	if r.Match != nil {
		fee := ToFeeResponse(r.Match, now)
		resp.Match = &fee
	}
	return resp
}

// ToReconciliationSessionResponse converts a session for the API.
func ToReconciliationSessionResponse(s *domain.ReconciliationSession, now time.Time) ReconciliationSessionResponse {
	results := make([]MatchResultResponse, len(s.Results))
	for i, r := range s.Results {
		idx := i
		results[i] = ToMatchResultResponse(&idx, r, now)
	}
	counts := make(map[string]int)
	for c, n := range s.CountByConfidence() {
		counts[string(c)] = n
	}
	warnings := s.Warnings
	if warnings == nil {
		warnings = []domain.ParseWarning{}
	}
	return ReconciliationSessionResponse{
		SessionID: s.SessionID,
		Format:    s.Format,
		FileName:  s.FileName,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Results:   results,
		Warnings:  warnings,
		Counts:    counts,
		OpenFees:  ToFeeResponses(s.OpenFees, now),
	}
}

// ToReconciliationSummaryResponse converts a confirmation summary.
func ToReconciliationSummaryResponse(summary *domain.ReconciliationSummary, now time.Time) ReconciliationSummaryResponse {
	convert := func(rs []domain.MatchResult) []MatchResultResponse {
		out := make([]MatchResultResponse, len(rs))
		for i, r := range rs {
			out[i] = ToMatchResultResponse(nil, r, now)
		}
		return out
	}
	return ReconciliationSummaryResponse{
		Applied:    ToFeeResponses(summary.Applied, now),
		Unresolved: convert(summary.Unresolved),
		Conflicts:  convert(summary.Conflicts),
		Skipped:    convert(summary.Skipped),
	}
}
