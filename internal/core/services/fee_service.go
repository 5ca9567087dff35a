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
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultFeeDueDays = 15

// feeService implements the FeeSvcFacade interface
type feeService struct {
	BaseService
	feeRepo portsrepo.FeeRepositoryFacade
	dueDays int
}

// FeeServiceOption is a functional option for configuring the fee service
type FeeServiceOption func(*feeService)

// WithFeeDueDays sets the number of days after the period end a fee falls due.
func WithFeeDueDays(days int) FeeServiceOption {
	return func(s *feeService) {
		if days > 0 {
			s.dueDays = days
		}
	}
}

// WithFeeClock replaces time.Now.
func WithFeeClock(now func() time.Time) FeeServiceOption {
	return func(s *feeService) {
		s.clock = now
	}
}

// NewFeeService creates a new fee service with the provided options
func NewFeeService(repo portsrepo.FeeRepositoryFacade, options ...FeeServiceOption) portssvc.FeeSvcFacade {
	svc := &feeService{
		feeRepo: repo,
		dueDays: defaultFeeDueDays,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

func (s *feeService) CreateFee(ctx context.Context, req dto.CreateFeeRequest, userID string) (*domain.Fee, error) {
	now := s.Now()
	fee := s.newFee(req.MemberID, req.MemberNumber, req.MemberFirstName, req.MemberLastName,
		req.PeriodStart, req.PeriodEnd, req.Amount, req.Method, req.HasMandate, userID, now)
	if req.DueDate != nil {
		fee.DueDate = dateOnly(*req.DueDate)
	}

	if err := fee.Validate(); err != nil {
		s.LogWarn(ctx, "Rejected invalid fee", slog.String("member_number", fee.MemberNumber), slog.String("reason", err.Error()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	exists, err := s.feeRepo.FeeExistsForPeriod(ctx, fee.MemberID, fee.PeriodStart, fee.PeriodEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing fee", slog.String("member_id", fee.MemberID))
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("member %s already has a fee for this period: %w", fee.MemberNumber, apperrors.ErrDuplicate)
	}

	if err := s.feeRepo.SaveFee(ctx, fee); err != nil {
		s.LogError(ctx, err, "Failed to save fee", slog.String("fee_id", fee.FeeID))
		return nil, err
	}

	s.LogInfo(ctx, "Fee created successfully",
		slog.String("fee_id", fee.FeeID),
		slog.String("member_number", fee.MemberNumber))
	return &fee, nil
}

func (s *feeService) GenerateFees(ctx context.Context, req dto.GenerateFeesRequest, userID string) ([]domain.Fee, []string, error) {
	now := s.Now()

	// Validate every fee before anything is stored
	fees := make([]domain.Fee, 0, len(req.Members))
	for _, m := range req.Members {
		amount := req.Amount
		if m.Amount != nil {
			amount = *m.Amount
		}
		fee := s.newFee(m.MemberID, m.MemberNumber, m.FirstName, m.LastName,
			req.PeriodStart, req.PeriodEnd, amount, m.Method, m.HasMandate, userID, now)
		if err := fee.Validate(); err != nil {
			return nil, nil, fmt.Errorf("member %s: %w: %w", m.MemberNumber, apperrors.ErrValidation, err)
		}
		fees = append(fees, fee)
	}

	created := make([]domain.Fee, 0, len(fees))
	skipped := make([]string, 0)
	for _, fee := range fees {
		exists, err := s.feeRepo.FeeExistsForPeriod(ctx, fee.MemberID, fee.PeriodStart, fee.PeriodEnd)
		if err != nil {
			s.LogError(ctx, err, "Failed to check existing fee", slog.String("member_id", fee.MemberID))
			return created, skipped, err
		}
		if exists {
			skipped = append(skipped, fee.MemberNumber)
			continue
		}

		if err := s.feeRepo.SaveFee(ctx, fee); err != nil {
			s.LogError(ctx, err, "Failed to save generated fee", slog.String("member_number", fee.MemberNumber))
			return created, skipped, err
		}
		created = append(created, fee)
	}

	s.LogInfo(ctx, "Fees generated",
		slog.Int("created", len(created)),
		slog.Int("skipped", len(skipped)),
		slog.Time("period_start", req.PeriodStart))
	return created, skipped, nil
}

func (s *feeService) newFee(memberID, memberNumber, firstName, lastName string, periodStart, periodEnd time.Time,
	amount decimal.Decimal, method domain.PaymentMethod, hasMandate bool, userID string, now time.Time) domain.Fee {
	end := dateOnly(periodEnd)
	return domain.Fee{
		FeeID:           uuid.NewString(),
		MemberID:        memberID,
		MemberNumber:    memberNumber,
		MemberFirstName: firstName,
		MemberLastName:  lastName,
		PeriodStart:     dateOnly(periodStart),
		PeriodEnd:       end,
		DueDate:         domain.DueDateForPeriod(end, s.dueDays),
		Amount:          amount.Round(2),
		Method:          method,
		Status:          domain.FeeOpen,
		HasMandate:      hasMandate && method == domain.MethodSEPA,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *feeService) GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	fee, err := s.feeRepo.FindFeeByID(ctx, feeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get fee", slog.String("fee_id", feeID))
		}
		return nil, err
	}
	return fee, nil
}

func (s *feeService) ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error) {
	filter.Now = s.Now()
	fees, next, err := s.feeRepo.ListFees(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fees")
		return nil, nil, err
	}
	if fees == nil {
		fees = []domain.Fee{}
	}
	return fees, next, nil
}

func (s *feeService) ListOpenFees(ctx context.Context) ([]domain.Fee, error) {
	fees, err := s.feeRepo.ListOpenFees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open fees")
		return nil, err
	}
	return fees, nil
}
