package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// --- Mock FeeRepository ---
type MockFeeRepository struct {
	mock.Mock
}

var _ portsrepo.FeeRepositoryFacade = (*MockFeeRepository)(nil)

func (m *MockFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	args := m.Called(ctx, feeID)
	var fee *domain.Fee
	if args.Get(0) != nil {
		fee = args.Get(0).(*domain.Fee)
	}
	return fee, args.Error(1)
}

func (m *MockFeeRepository) ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var fees []domain.Fee
	if args.Get(0) != nil {
		fees = args.Get(0).([]domain.Fee)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return fees, next, args.Error(2)
}

func (m *MockFeeRepository) ListOpenFees(ctx context.Context) ([]domain.Fee, error) {
	args := m.Called(ctx)
	var fees []domain.Fee
	if args.Get(0) != nil {
		fees = args.Get(0).([]domain.Fee)
	}
	return fees, args.Error(1)
}

func (m *MockFeeRepository) FeeExistsForPeriod(ctx context.Context, memberID string, periodStart, periodEnd time.Time) (bool, error) {
	args := m.Called(ctx, memberID, periodStart, periodEnd)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) ApplyPayments(ctx context.Context, fees []domain.Fee, userID string, at time.Time) error {
	args := m.Called(ctx, fees, userID, at)
	return args.Error(0)
}

func (m *MockFeeRepository) AssignSepaBatchRef(ctx context.Context, batchRef string, feeIDs []string, userID string, at time.Time) error {
	args := m.Called(ctx, batchRef, feeIDs, userID, at)
	return args.Error(0)
}

// --- Mock ScreenRepository ---
type MockScreenRepository struct {
	mock.Mock
}

var _ portsrepo.ScreenRepositoryFacade = (*MockScreenRepository)(nil)

func (m *MockScreenRepository) ListScreens(ctx context.Context, activeOnly bool) ([]domain.PublicScreen, error) {
	args := m.Called(ctx, activeOnly)
	var screens []domain.PublicScreen
	if args.Get(0) != nil {
		screens = args.Get(0).([]domain.PublicScreen)
	}
	return screens, args.Error(1)
}

func (m *MockScreenRepository) FindScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, screenID)
	var screen *domain.PublicScreen
	if args.Get(0) != nil {
		screen = args.Get(0).(*domain.PublicScreen)
	}
	return screen, args.Error(1)
}

func (m *MockScreenRepository) FindScreenBySlug(ctx context.Context, slug string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, slug)
	var screen *domain.PublicScreen
	if args.Get(0) != nil {
		screen = args.Get(0).(*domain.PublicScreen)
	}
	return screen, args.Error(1)
}

func (m *MockScreenRepository) SaveScreen(ctx context.Context, screen domain.PublicScreen) error {
	args := m.Called(ctx, screen)
	return args.Error(0)
}

func (m *MockScreenRepository) UpdateScreen(ctx context.Context, screen domain.PublicScreen) error {
	args := m.Called(ctx, screen)
	return args.Error(0)
}

func (m *MockScreenRepository) RemoveScreen(ctx context.Context, screenID string) error {
	args := m.Called(ctx, screenID)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// openFee builds an unpaid fee for the 2026 membership year.
func openFee(id, memberNumber, amount string, method domain.PaymentMethod) domain.Fee {
	return domain.Fee{
		FeeID:           id,
		MemberID:        "m-" + memberNumber,
		MemberNumber:    memberNumber,
		MemberFirstName: "Lid",
		MemberLastName:  memberNumber,
		PeriodStart:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.RequireFromString(amount),
		Method:          method,
		Status:          domain.FeeOpen,
		HasMandate:      method == domain.MethodSEPA,
	}
}
