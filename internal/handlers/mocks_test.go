package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/SscSPs/ledenbeheer/internal/utils"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

func generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, "ledenbeheer-test")
	if err != nil {
		panic(err)
	}
	return token
}

// mockClock answers Now for the service mocks; zero means the wall clock.
type mockClock struct {
	at time.Time
}

func (c *mockClock) Now() time.Time {
	if c.at.IsZero() {
		return time.Now()
	}
	return c.at
}

// --- Mock FeeService ---
type MockFeeService struct {
	mock.Mock
	mockClock
}

func (m *MockFeeService) GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeService) ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error) {
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

func (m *MockFeeService) ListOpenFees(ctx context.Context) ([]domain.Fee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fee), args.Error(1)
}

func (m *MockFeeService) CreateFee(ctx context.Context, req dto.CreateFeeRequest, userID string) (*domain.Fee, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeService) GenerateFees(ctx context.Context, req dto.GenerateFeesRequest, userID string) ([]domain.Fee, []string, error) {
	args := m.Called(ctx, req, userID)
	var created []domain.Fee
	if args.Get(0) != nil {
		created = args.Get(0).([]domain.Fee)
	}
	var skipped []string
	if args.Get(1) != nil {
		skipped = args.Get(1).([]string)
	}
	return created, skipped, args.Error(2)
}

var _ portssvc.FeeSvcFacade = (*MockFeeService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
	mockClock
}

func (m *MockReconciliationService) ImportStatement(ctx context.Context, format domain.StatementFormat, fileName string, content []byte, userID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, format, fileName, content, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) GetSession(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) SetManualMatch(ctx context.Context, sessionID string, index int, feeID *string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, sessionID, index, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationService) ConfirmSession(ctx context.Context, sessionID string, indexes []int, userID string) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx, sessionID, indexes, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}

func (m *MockReconciliationService) DiscardSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockReconciliationService) SessionReport(ctx context.Context, sessionID string) ([]byte, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

// --- Mock SepaExportService ---
type MockSepaExportService struct {
	mock.Mock
	mockClock
}

func (m *MockSepaExportService) Preview(ctx context.Context) (*domain.SepaEligibility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SepaEligibility), args.Error(1)
}

func (m *MockSepaExportService) PrepareBatch(ctx context.Context, executionDate time.Time, userID string) (*domain.SepaBatch, error) {
	args := m.Called(ctx, executionDate, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SepaBatch), args.Error(1)
}

func (m *MockSepaExportService) GetPendingBatch(ctx context.Context, batchRef string) (*domain.SepaBatch, error) {
	args := m.Called(ctx, batchRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SepaBatch), args.Error(1)
}

func (m *MockSepaExportService) ConfirmBatch(ctx context.Context, batchRef string, userID string) (*domain.SepaBatch, error) {
	args := m.Called(ctx, batchRef, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SepaBatch), args.Error(1)
}

func (m *MockSepaExportService) CancelBatch(ctx context.Context, batchRef string) error {
	args := m.Called(ctx, batchRef)
	return args.Error(0)
}

var _ portssvc.SepaExportSvcFacade = (*MockSepaExportService)(nil)

// --- Mock ScreenService ---
type MockScreenService struct {
	mock.Mock
}

func (m *MockScreenService) ListScreens(ctx context.Context) ([]domain.PublicScreen, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PublicScreen), args.Error(1)
}

func (m *MockScreenService) GetScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, screenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicScreen), args.Error(1)
}

func (m *MockScreenService) GetPublicScreen(ctx context.Context, slug string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicScreen), args.Error(1)
}

func (m *MockScreenService) CreateScreen(ctx context.Context, req dto.CreateScreenRequest, userID string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicScreen), args.Error(1)
}

func (m *MockScreenService) UpdateScreen(ctx context.Context, screenID string, req dto.UpdateScreenRequest, userID string) (*domain.PublicScreen, error) {
	args := m.Called(ctx, screenID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicScreen), args.Error(1)
}

func (m *MockScreenService) DeleteScreen(ctx context.Context, screenID string) error {
	args := m.Called(ctx, screenID)
	return args.Error(0)
}

var _ portssvc.ScreenSvcFacade = (*MockScreenService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	args := m.Called(ctx, username, password, email)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)
