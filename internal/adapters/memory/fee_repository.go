package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/SscSPs/ledenbeheer/internal/utils/pagination"
)

// FeeRepository keeps fees in a map. It is used when no database is
// configured and by the offline CLI.
type FeeRepository struct {
	mu   sync.RWMutex
	fees map[string]domain.Fee
}

// NewFeeRepository creates a repository seeded with fees.
func NewFeeRepository(seed ...domain.Fee) *FeeRepository {
	r := &FeeRepository{fees: make(map[string]domain.Fee, len(seed))}
	for _, f := range seed {
		r.fees[f.FeeID] = cloneFee(f)
	}
	return r
}

var _ portsrepo.FeeRepositoryFacade = (*FeeRepository)(nil)

func (r *FeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fees[feeID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := cloneFee(f)
	return &c, nil
}

func (r *FeeRepository) ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	r.mu.RLock()
	matching := make([]domain.Fee, 0, len(r.fees))
	for _, f := range r.fees {
		if feeMatchesFilter(f, filter) {
			matching = append(matching, cloneFee(f))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matching, func(i, j int) bool {
		a, b := matching[i], matching[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.After(b.DueDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.FeeID > b.FeeID
	})

	page := make([]domain.Fee, 0, limit)
	var next *string
	for _, f := range matching {
		if cursor != nil && !cursor.After(f.DueDate, f.CreatedAt, f.FeeID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.DueDate, last.CreatedAt, last.FeeID)
			next = &token
			break
		}
		page = append(page, f)
	}
	return page, next, nil
}

func feeMatchesFilter(f domain.Fee, filter portsrepo.FeeFilter) bool {
	if filter.Method != "" && f.Method != filter.Method {
		return false
	}
	if filter.MemberNumber != "" && f.MemberNumber != filter.MemberNumber {
		return false
	}
	if filter.Status != "" && f.EffectiveStatus(filter.Now) != filter.Status {
		return false
	}
	return true
}

func (r *FeeRepository) ListOpenFees(ctx context.Context) ([]domain.Fee, error) {
	r.mu.RLock()
	open := make([]domain.Fee, 0)
	for _, f := range r.fees {
		if f.IsOpen() {
			open = append(open, cloneFee(f))
		}
	}
	r.mu.RUnlock()

	sortOpenFees(open)
	return open, nil
}

// sortOpenFees orders by due date, member number and ID, matching the SQL adapter.
func sortOpenFees(fees []domain.Fee) {
	sort.Slice(fees, func(i, j int) bool {
		a, b := fees[i], fees[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.MemberNumber != b.MemberNumber {
			return a.MemberNumber < b.MemberNumber
		}
		return a.FeeID < b.FeeID
	})
}

func (r *FeeRepository) FeeExistsForPeriod(ctx context.Context, memberID string, periodStart, periodEnd time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.fees {
		if f.MemberID == memberID && f.PeriodStart.Equal(periodStart) && f.PeriodEnd.Equal(periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (r *FeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.fees[fee.FeeID]; exists {
		return apperrors.ErrDuplicate
	}
	r.fees[fee.FeeID] = cloneFee(fee)
	return nil
}

func (r *FeeRepository) ApplyPayments(ctx context.Context, fees []domain.Fee, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, paid := range fees {
		stored, ok := r.fees[paid.FeeID]
		if !ok {
			return fmt.Errorf("fee %s no longer exists: %w", paid.FeeID, apperrors.ErrConflict)
		}
		if !stored.IsOpen() {
			return fmt.Errorf("fee %s is already paid: %w", paid.FeeID, apperrors.ErrConflict)
		}
		if paid.PaidAt == nil {
			return fmt.Errorf("fee %s has no payment date: %w", paid.FeeID, apperrors.ErrValidation)
		}
	}

	for _, paid := range fees {
		stored := r.fees[paid.FeeID]
		stored.Status = domain.FeePaid
		stored.PaidAt = cloneTime(paid.PaidAt)
		stored.LastUpdatedAt = at
		stored.LastUpdatedBy = userID
		r.fees[paid.FeeID] = stored
	}
	return nil
}

func (r *FeeRepository) AssignSepaBatchRef(ctx context.Context, batchRef string, feeIDs []string, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range feeIDs {
		stored, ok := r.fees[id]
		if !ok {
			return fmt.Errorf("fee %s no longer exists: %w", id, apperrors.ErrConflict)
		}
		if !stored.IsOpen() || stored.Method != domain.MethodSEPA || stored.SepaBatchRef != nil {
			return fmt.Errorf("fee %s can no longer be collected in this batch: %w", id, apperrors.ErrConflict)
		}
	}

	for _, id := range feeIDs {
		stored := r.fees[id]
		ref := batchRef
		stored.SepaBatchRef = &ref
		stored.LastUpdatedAt = at
		stored.LastUpdatedBy = userID
		r.fees[id] = stored
	}
	return nil
}
