package services

import (
	"context"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// ReconciliationSvcFacade drives a statement import from upload to confirmation.
type ReconciliationSvcFacade interface {
	// ImportStatement parses content, guesses matches against the open fees and
	// keeps the result as a new session.
	ImportStatement(ctx context.Context, format domain.StatementFormat, fileName string, content []byte, userID string) (*domain.ReconciliationSession, error)

	// GetSession returns apperrors.ErrSessionExpired for unknown or expired sessions.
	GetSession(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)

	// SetManualMatch overrides result index with feeID, or clears it when feeID is nil.
	SetManualMatch(ctx context.Context, sessionID string, index int, feeID *string) (*domain.ReconciliationSession, error)

	// ConfirmSession applies the selected results (all when indexes is empty)
	// and persists the payments in one transaction. Unselected unknown results
	// are reported as unresolved, unselected resolved ones as skipped. When the
	// store reports a fee as already paid, the matched fees are reloaded and
	// the confirmation is retried once with those fees as conflicts.
	ConfirmSession(ctx context.Context, sessionID string, indexes []int, userID string) (*domain.ReconciliationSummary, error)

	// DiscardSession drops a session without applying anything.
	DiscardSession(ctx context.Context, sessionID string) error

	// SessionReport renders the session as an XLSX workbook.
	SessionReport(ctx context.Context, sessionID string) ([]byte, error)

	Clock
}
