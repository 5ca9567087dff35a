package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// SepaExportSvcFacade prepares and confirms direct debit exports.
type SepaExportSvcFacade interface {
	// Preview splits the open fees into eligible and excluded ones.
	Preview(ctx context.Context) (*domain.SepaEligibility, error)

	// PrepareBatch generates a batch over the eligible fees and keeps it pending.
	// Nothing is persisted until ConfirmBatch.
	PrepareBatch(ctx context.Context, executionDate time.Time, userID string) (*domain.SepaBatch, error)

	// GetPendingBatch returns apperrors.ErrSessionExpired when the batch is gone.
	GetPendingBatch(ctx context.Context, batchRef string) (*domain.SepaBatch, error)

	// ConfirmBatch writes the batch reference onto every included fee.
	ConfirmBatch(ctx context.Context, batchRef string, userID string) (*domain.SepaBatch, error)

	// CancelBatch discards a pending batch.
	CancelBatch(ctx context.Context, batchRef string) error

	Clock
}
