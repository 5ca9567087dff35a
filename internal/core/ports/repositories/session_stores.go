package repositories

import (
	"context"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// ReconciliationSessionStore keeps statement imports until they are confirmed
// or discarded. Expired sessions behave as absent.
type ReconciliationSessionStore interface {
	PutSession(ctx context.Context, session domain.ReconciliationSession) error
	// GetSession returns apperrors.ErrSessionExpired for unknown or expired sessions.
	GetSession(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// PendingBatchStore keeps generated SEPA batches until the export is confirmed.
type PendingBatchStore interface {
	// AddBatch returns apperrors.ErrDuplicate when a batch with the same reference is pending.
	AddBatch(ctx context.Context, batch domain.SepaBatch) error
	// GetBatch returns apperrors.ErrSessionExpired for unknown or expired batches.
	GetBatch(ctx context.Context, batchRef string) (*domain.SepaBatch, error)
	DeleteBatch(ctx context.Context, batchRef string) error
}
