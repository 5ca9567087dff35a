package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/core/sepa"
)

type sepaExportService struct {
	BaseService
	feeRepo   portsrepo.FeeRepositoryFacade
	pending   portsrepo.PendingBatchStore
	creditor  domain.SepaCreditor
	generator *sepa.Generator
}

// SepaExportServiceOption is a functional option for configuring the SEPA export service
type SepaExportServiceOption func(*sepaExportService)

// WithSepaClock replaces time.Now for both batch references and audit fields.
func WithSepaClock(now func() time.Time) SepaExportServiceOption {
	return func(s *sepaExportService) {
		s.clock = now
	}
}

// NewSepaExportService creates the two-phase export service. Batches are kept
// in pending until confirmed.
func NewSepaExportService(feeRepo portsrepo.FeeRepositoryFacade, pending portsrepo.PendingBatchStore, creditor domain.SepaCreditor, options ...SepaExportServiceOption) portssvc.SepaExportSvcFacade {
	svc := &sepaExportService{
		feeRepo:  feeRepo,
		pending:  pending,
		creditor: creditor,
	}
	for _, option := range options {
		option(svc)
	}
	svc.generator = sepa.NewGenerator(creditor, sepa.WithClock(svc.Now))
	return svc
}

var _ portssvc.SepaExportSvcFacade = (*sepaExportService)(nil)

func (s *sepaExportService) Preview(ctx context.Context) (*domain.SepaEligibility, error) {
	fees, err := s.feeRepo.ListOpenFees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load open fees for SEPA preview")
		return nil, err
	}
	eligibility := sepa.SelectEligible(fees)
	return &eligibility, nil
}

func (s *sepaExportService) PrepareBatch(ctx context.Context, executionDate time.Time, userID string) (*domain.SepaBatch, error) {
	if dateOnly(executionDate).Before(dateOnly(s.Now())) {
		return nil, fmt.Errorf("execution date %s is in the past: %w", executionDate.Format("2006-01-02"), apperrors.ErrValidation)
	}

	eligibility, err := s.Preview(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := s.generator.GenerateBatch(eligibility.Eligible, dateOnly(executionDate))
	if err != nil {
		s.LogError(ctx, err, "Failed to generate SEPA batch")
		return nil, err
	}
	batch.Warnings = append(batch.Warnings, eligibility.Warnings...)
	if s.creditor.IBAN == "" || s.creditor.CreditorID == "" {
		batch.Warnings = append(batch.Warnings, "creditor IBAN or creditor identifier is not configured")
	}

	if err := s.pending.AddBatch(ctx, batch); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Batch reference already pending", slog.String("batch_ref", batch.BatchRef))
		} else {
			s.LogError(ctx, err, "Failed to keep pending batch", slog.String("batch_ref", batch.BatchRef))
		}
		return nil, err
	}

	s.LogInfo(ctx, "SEPA batch prepared",
		slog.String("batch_ref", batch.BatchRef),
		slog.String("user_id", userID),
		slog.Int("fees", len(batch.Fees)),
		slog.String("total", batch.TotalAmount.StringFixed(2)))
	return &batch, nil
}

func (s *sepaExportService) GetPendingBatch(ctx context.Context, batchRef string) (*domain.SepaBatch, error) {
	return s.pending.GetBatch(ctx, batchRef)
}

func (s *sepaExportService) ConfirmBatch(ctx context.Context, batchRef string, userID string) (*domain.SepaBatch, error) {
	batch, err := s.pending.GetBatch(ctx, batchRef)
	if err != nil {
		return nil, err
	}

	if len(batch.Fees) > 0 {
		feeIDs := make([]string, len(batch.Fees))
		for i, f := range batch.Fees {
			feeIDs[i] = f.FeeID
		}
		err := s.feeRepo.AssignSepaBatchRef(ctx, batch.BatchRef, feeIDs, userID, s.Now())
		if err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				s.LogError(ctx, err, "Failed to assign batch reference", slog.String("batch_ref", batchRef))
				return nil, err
			}
			// A stale batch can never be confirmed; it has to be prepared again
			s.LogWarn(ctx, "SEPA batch is stale", slog.String("batch_ref", batchRef))
			s.dropPending(ctx, batchRef)
			return nil, err
		}
	}

	s.dropPending(ctx, batchRef)

	ref := batch.BatchRef
	for i := range batch.Fees {
		batch.Fees[i].SepaBatchRef = &ref
	}

	s.LogInfo(ctx, "SEPA batch confirmed",
		slog.String("batch_ref", batchRef),
		slog.Int("fees", len(batch.Fees)))
	return batch, nil
}

func (s *sepaExportService) CancelBatch(ctx context.Context, batchRef string) error {
	if _, err := s.pending.GetBatch(ctx, batchRef); err != nil {
		return err
	}
	if err := s.pending.DeleteBatch(ctx, batchRef); err != nil {
		return err
	}
	s.LogInfo(ctx, "SEPA batch cancelled", slog.String("batch_ref", batchRef))
	return nil
}

func (s *sepaExportService) dropPending(ctx context.Context, batchRef string) {
	if err := s.pending.DeleteBatch(ctx, batchRef); err != nil {
		s.LogWarn(ctx, "Failed to drop pending batch", slog.String("batch_ref", batchRef), slog.String("error", err.Error()))
	}
}
