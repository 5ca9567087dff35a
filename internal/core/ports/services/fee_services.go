package services

import (
	"context"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/SscSPs/ledenbeheer/internal/dto"
)

// FeeReaderSvc defines read operations for fee data
type FeeReaderSvc interface {
	// GetFeeByID retrieves a specific fee by its unique identifier.
	GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, error)

	// ListFees retrieves a page of fees. filter.Now is filled in by the service.
	ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error)

	// ListOpenFees retrieves every fee without a recorded payment.
	ListOpenFees(ctx context.Context) ([]domain.Fee, error)
}

// FeeWriterSvc defines write operations for fee data
type FeeWriterSvc interface {
	// CreateFee persists a single new OPEN fee.
	CreateFee(ctx context.Context, req dto.CreateFeeRequest, userID string) (*domain.Fee, error)

	// GenerateFees creates one fee per member for a period. Members that
	// already have a fee for the period are returned as skipped member numbers.
	GenerateFees(ctx context.Context, req dto.GenerateFeesRequest, userID string) ([]domain.Fee, []string, error)
}

// FeeSvcFacade combines all fee-related service interfaces
type FeeSvcFacade interface {
	FeeReaderSvc
	FeeWriterSvc
	Clock
}
