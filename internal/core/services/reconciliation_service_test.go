package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/adapters/memory"
	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const reconciliationCSV = "date,amount,description\n" +
	"2026-10-01,30.00,Lidgeld 2026 lid 0001\n" +
	"2026-10-02,45.50,overschrijving\n" +
	"2026-10-03,12.00,onbekend\n"

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockRepo *MockFeeRepository
	sessions *memory.SessionStore
	service  portssvc.ReconciliationSvcFacade
	ctx      context.Context
	fees     []domain.Fee
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFeeRepository)
	suite.sessions = memory.NewSessionStore(memory.WithStoreClock(fixedClock))
	suite.service = services.NewReconciliationService(suite.mockRepo, suite.sessions,
		services.WithSessionTTL(time.Hour), services.WithReconciliationClock(fixedClock))
	suite.ctx = context.Background()
	suite.fees = []domain.Fee{
		openFee("fee-1", "0001", "30.00", domain.MethodSEPA),
		openFee("fee-2", "0002", "45.50", domain.MethodTransfer),
		openFee("fee-3", "0003", "30.00", domain.MethodCash),
	}
}

func (suite *ReconciliationServiceTestSuite) importCSV() *domain.ReconciliationSession {
	suite.mockRepo.On("ListOpenFees", suite.ctx).Return(suite.fees, nil).Once()
	session, err := suite.service.ImportStatement(suite.ctx, domain.FormatCSV, "export.csv", []byte(reconciliationCSV), "user-1")
	suite.Require().NoError(err)
	return session
}

func (suite *ReconciliationServiceTestSuite) TestImportStatement_GuessesMatches() {
	session := suite.importCSV()

	suite.NotEmpty(session.SessionID)
	suite.Equal("export.csv", session.FileName)
	suite.Equal(testNow.Add(time.Hour), session.ExpiresAt)
	suite.Empty(session.Warnings)
	suite.Require().Len(session.Results, 3)

	suite.Equal(domain.ConfidenceCertain, session.Results[0].Confidence)
	suite.Equal("fee-1", session.Results[0].Match.FeeID)
	suite.Equal(domain.ConfidencePossible, session.Results[1].Confidence)
	suite.Equal("fee-2", session.Results[1].Match.FeeID)
	suite.Equal(domain.ConfidenceUnknown, session.Results[2].Confidence)
	suite.Nil(session.Results[2].Match)

	stored, err := suite.service.GetSession(suite.ctx, session.SessionID)
	suite.Require().NoError(err)
	suite.Equal(session.Results, stored.Results)
}

func (suite *ReconciliationServiceTestSuite) TestImportStatement_RepoError() {
	repoErr := errors.New("db down")
	suite.mockRepo.On("ListOpenFees", suite.ctx).Return(nil, repoErr).Once()

	session, err := suite.service.ImportStatement(suite.ctx, domain.FormatMT940, "x.sta", []byte(""), "user-1")

	suite.Nil(session)
	suite.ErrorIs(err, repoErr)
}

func (suite *ReconciliationServiceTestSuite) TestSetManualMatch() {
	session := suite.importCSV()
	feeID := "fee-3"

	updated, err := suite.service.SetManualMatch(suite.ctx, session.SessionID, 2, &feeID)
	suite.Require().NoError(err)
	suite.Equal(domain.ConfidenceManual, updated.Results[2].Confidence)
	suite.Equal("fee-3", updated.Results[2].Match.FeeID)

	cleared, err := suite.service.SetManualMatch(suite.ctx, session.SessionID, 0, nil)
	suite.Require().NoError(err)
	suite.Equal(domain.ConfidenceUnknown, cleared.Results[0].Confidence)
	suite.Nil(cleared.Results[0].Match)
	suite.Equal(domain.ConfidenceManual, cleared.Results[2].Confidence, "earlier override is kept")
}

func (suite *ReconciliationServiceTestSuite) TestSetManualMatch_Rejections() {
	session := suite.importCSV()
	unknown := "fee-404"

	_, err := suite.service.SetManualMatch(suite.ctx, session.SessionID, 3, nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SetManualMatch(suite.ctx, session.SessionID, 0, &unknown)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SetManualMatch(suite.ctx, "no-such-session", 0, nil)
	suite.ErrorIs(err, apperrors.ErrSessionExpired)
}

func (suite *ReconciliationServiceTestSuite) TestSetManualMatch_DebitLine() {
	mt940 := ":20:STMT\n:25:BE68539007547034\n:61:2610051005D20,00NTRFNONREF\n:86:Bankkosten\n"
	suite.mockRepo.On("ListOpenFees", suite.ctx).Return(suite.fees, nil).Once()
	session, err := suite.service.ImportStatement(suite.ctx, domain.FormatMT940, "x.sta", []byte(mt940), "user-1")
	suite.Require().NoError(err)
	suite.Require().Len(session.Results, 1)
	suite.Require().True(session.Results[0].Transaction.Debit)

	feeID := "fee-1"
	_, err = suite.service.SetManualMatch(suite.ctx, session.SessionID, 0, &feeID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_AppliesAndDropsSession() {
	session := suite.importCSV()
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.MatchedBy(func(fees []domain.Fee) bool {
		return len(fees) == 2 &&
			fees[0].FeeID == "fee-1" && fees[0].Status == domain.FeePaid &&
			fees[0].PaidAt.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) &&
			fees[1].FeeID == "fee-2"
	}), "user-1", testNow).Return(nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Require().NoError(err)
	suite.Len(summary.Applied, 2)
	suite.Len(summary.Unresolved, 1)
	suite.Empty(summary.Conflicts)
	suite.mockRepo.AssertExpectations(suite.T())

	_, err = suite.service.GetSession(suite.ctx, session.SessionID)
	suite.ErrorIs(err, apperrors.ErrSessionExpired)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_SelectedIndexes() {
	session := suite.importCSV()
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.MatchedBy(func(fees []domain.Fee) bool {
		return len(fees) == 1 && fees[0].FeeID == "fee-2"
	}), "user-1", testNow).Return(nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, []int{1, 1}, "user-1")

	suite.Require().NoError(err)
	suite.Len(summary.Applied, 1)
	suite.Require().Len(summary.Unresolved, 1)
	suite.Equal(4, summary.Unresolved[0].Transaction.Line)
	suite.Require().Len(summary.Skipped, 1)
	suite.Equal("fee-1", summary.Skipped[0].Match.FeeID)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_PartialIndexesReportUnselectedLines() {
	session := suite.importCSV()
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.MatchedBy(func(fees []domain.Fee) bool {
		return len(fees) == 1 && fees[0].FeeID == "fee-1"
	}), "user-1", testNow).Return(nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, []int{0}, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(summary.Applied, 1)
	suite.Equal("fee-1", summary.Applied[0].FeeID)
	suite.Require().Len(summary.Unresolved, 1)
	suite.Equal(domain.ConfidenceUnknown, summary.Unresolved[0].Confidence)
	suite.Equal(4, summary.Unresolved[0].Transaction.Line)
	suite.Require().Len(summary.Skipped, 1)
	suite.Equal(3, summary.Skipped[0].Transaction.Line)
	suite.Empty(summary.Conflicts)

	// every line of the statement is accounted for exactly once
	suite.Equal(len(session.Results),
		len(summary.Applied)+len(summary.Unresolved)+len(summary.Conflicts)+len(summary.Skipped))
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_IndexOutOfRange() {
	session := suite.importCSV()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, []int{0, 3}, "user-1")

	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_DoubleMatchIsConflict() {
	session := suite.importCSV()
	feeID := "fee-1"
	_, err := suite.service.SetManualMatch(suite.ctx, session.SessionID, 2, &feeID)
	suite.Require().NoError(err)
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.Anything, "user-1", testNow).Return(nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Require().NoError(err)
	suite.Len(summary.Applied, 2)
	suite.Require().Len(summary.Conflicts, 1)
	suite.Equal(4, summary.Conflicts[0].Transaction.Line)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_PersistFailureKeepsSession() {
	session := suite.importCSV()
	repoErr := errors.New("db down")
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.Anything, "user-1", testNow).Return(repoErr).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Nil(summary)
	suite.ErrorIs(err, repoErr)
	_, err = suite.service.GetSession(suite.ctx, session.SessionID)
	suite.NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindFeeByID", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_FeePaidElsewhereBecomesConflict() {
	session := suite.importCSV()
	paidElsewhere := suite.fees[1].MarkPaid(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	stillOpen := suite.fees[0]

	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.MatchedBy(func(fees []domain.Fee) bool {
		return len(fees) == 2
	}), "user-1", testNow).Return(apperrors.ErrConflict).Once()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-1").Return(&stillOpen, nil).Once()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-2").Return(&paidElsewhere, nil).Once()
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.MatchedBy(func(fees []domain.Fee) bool {
		return len(fees) == 1 && fees[0].FeeID == "fee-1"
	}), "user-1", testNow).Return(nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(summary.Applied, 1)
	suite.Equal("fee-1", summary.Applied[0].FeeID)
	suite.Require().Len(summary.Conflicts, 1)
	suite.Equal(3, summary.Conflicts[0].Transaction.Line)
	suite.Equal(domain.FeePaid, summary.Conflicts[0].Match.Status)
	suite.Len(summary.Unresolved, 1)
	suite.mockRepo.AssertExpectations(suite.T())

	_, err = suite.service.GetSession(suite.ctx, session.SessionID)
	suite.ErrorIs(err, apperrors.ErrSessionExpired)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_ConflictWithNothingStaleKeepsSession() {
	session := suite.importCSV()
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.Anything, "user-1", testNow).Return(apperrors.ErrConflict).Once()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-1").Return(&suite.fees[0], nil).Once()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-2").Return(&suite.fees[1], nil).Once()

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrConflict)
	stored, err := suite.service.GetSession(suite.ctx, session.SessionID)
	suite.Require().NoError(err)
	suite.Len(stored.OpenFees, 3)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "ApplyPayments", 1)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_RefreshedSessionDropsPaidFee() {
	session := suite.importCSV()
	paidElsewhere := suite.fees[1].MarkPaid(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	suite.mockRepo.On("ApplyPayments", suite.ctx, mock.Anything, "user-1", testNow).Return(apperrors.ErrConflict).Twice()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-1").Return(&suite.fees[0], nil).Once()
	suite.mockRepo.On("FindFeeByID", suite.ctx, "fee-2").Return(&paidElsewhere, nil).Once()

	_, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")
	suite.ErrorIs(err, apperrors.ErrConflict)

	stored, err := suite.service.GetSession(suite.ctx, session.SessionID)
	suite.Require().NoError(err)
	_, found := stored.FindOpenFee("fee-2")
	suite.False(found, "a fee paid elsewhere cannot be matched manually anymore")
	suite.Equal(domain.FeePaid, stored.Results[1].Match.Status)
}

func (suite *ReconciliationServiceTestSuite) TestConfirmSession_NothingResolved() {
	suite.mockRepo.On("ListOpenFees", suite.ctx).Return([]domain.Fee{}, nil).Once()
	session, err := suite.service.ImportStatement(suite.ctx, domain.FormatCSV, "export.csv", []byte(reconciliationCSV), "user-1")
	suite.Require().NoError(err)

	summary, err := suite.service.ConfirmSession(suite.ctx, session.SessionID, nil, "user-1")

	suite.Require().NoError(err)
	suite.Empty(summary.Applied)
	suite.Len(summary.Unresolved, 3)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestDiscardSession() {
	session := suite.importCSV()

	suite.Require().NoError(suite.service.DiscardSession(suite.ctx, session.SessionID))
	suite.ErrorIs(suite.service.DiscardSession(suite.ctx, session.SessionID), apperrors.ErrSessionExpired)
}

func (suite *ReconciliationServiceTestSuite) TestSessionReport() {
	session := suite.importCSV()

	body, err := suite.service.SessionReport(suite.ctx, session.SessionID)

	suite.Require().NoError(err)
	suite.True(bytes.HasPrefix(body, []byte("PK")), "xlsx is a zip archive")
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
