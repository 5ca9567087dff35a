package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// FeeFilter narrows ListFees. Zero values mean "no restriction".
type FeeFilter struct {
	// Status may be OVERDUE; it is evaluated against Now.
	Status       domain.FeeStatus
	Method       domain.PaymentMethod
	MemberNumber string
	Now          time.Time
}

// FeeReader defines read operations for fee data
type FeeReader interface {
	// FindFeeByID retrieves a specific fee. Returns apperrors.ErrNotFound when absent.
	FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error)

	// ListFees returns a page of fees ordered by due date (newest first) and a
	// token for the next page, nil on the last page.
	ListFees(ctx context.Context, filter FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error)

	// ListOpenFees returns every fee without a recorded payment.
	ListOpenFees(ctx context.Context) ([]domain.Fee, error)

	// FeeExistsForPeriod reports whether the member already has a fee for the period.
	FeeExistsForPeriod(ctx context.Context, memberID string, periodStart, periodEnd time.Time) (bool, error)
}

// FeeWriter defines write operations for fee data
type FeeWriter interface {
	// SaveFee persists a new fee.
	SaveFee(ctx context.Context, fee domain.Fee) error

	// ApplyPayments stores status and paidAt of the given paid fees in one
	// transaction. If any fee is no longer open nothing is written and
	// apperrors.ErrConflict is returned.
	ApplyPayments(ctx context.Context, fees []domain.Fee, userID string, at time.Time) error

	// AssignSepaBatchRef sets batchRef on all feeIDs in one transaction. Every
	// fee must still be an open SEPA fee without a batch reference, otherwise
	// nothing is written and apperrors.ErrConflict is returned.
	AssignSepaBatchRef(ctx context.Context, batchRef string, feeIDs []string, userID string, at time.Time) error
}

// FeeRepositoryFacade combines all fee-related repository interfaces
type FeeRepositoryFacade interface {
	FeeReader
	FeeWriter
}
