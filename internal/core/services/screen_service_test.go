package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/core/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ScreenServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockScreenRepository
	screenService portssvc.ScreenSvcFacade
	ctx           context.Context
}

func (suite *ScreenServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockScreenRepository)
	suite.screenService = services.NewScreenService(suite.mockRepo, services.WithScreenClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *ScreenServiceTestSuite) TestCreateScreen_Defaults() {
	req := dto.CreateScreenRequest{Slug: "inkom", Name: "Inkom", Kind: domain.ScreenAnnouncement, Title: "Welkom"}
	suite.mockRepo.On("SaveScreen", suite.ctx, mock.MatchedBy(func(s domain.PublicScreen) bool {
		return s.Slug == "inkom" && s.IsActive && s.RefreshSeconds == 60
	})).Return(nil).Once()

	screen, err := suite.screenService.CreateScreen(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(screen.ScreenID)
	suite.Equal(testNow, screen.CreatedAt)
	suite.Equal("user-1", screen.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ScreenServiceTestSuite) TestCreateScreen_InactiveAndInvalidKind() {
	inactive := false
	req := dto.CreateScreenRequest{Slug: "zaal", Name: "Zaal", Kind: domain.ScreenPrayerTimes, IsActive: &inactive, RefreshSeconds: 30}
	suite.mockRepo.On("SaveScreen", suite.ctx, mock.MatchedBy(func(s domain.PublicScreen) bool {
		return !s.IsActive && s.RefreshSeconds == 30
	})).Return(nil).Once()

	_, err := suite.screenService.CreateScreen(suite.ctx, req, "user-1")
	suite.Require().NoError(err)

	req.Kind = "WEATHER"
	_, err = suite.screenService.CreateScreen(suite.ctx, req, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveScreen", 1)
}

func (suite *ScreenServiceTestSuite) TestCreateScreen_DuplicateSlug() {
	req := dto.CreateScreenRequest{Slug: "inkom", Name: "Inkom", Kind: domain.ScreenAnnouncement}
	suite.mockRepo.On("SaveScreen", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	screen, err := suite.screenService.CreateScreen(suite.ctx, req, "user-1")

	suite.Nil(screen)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ScreenServiceTestSuite) TestGetPublicScreen() {
	active := &domain.PublicScreen{ScreenID: "s1", Slug: "inkom", IsActive: true}
	hidden := &domain.PublicScreen{ScreenID: "s2", Slug: "archief", IsActive: false}
	suite.mockRepo.On("FindScreenBySlug", suite.ctx, "inkom").Return(active, nil).Once()
	suite.mockRepo.On("FindScreenBySlug", suite.ctx, "archief").Return(hidden, nil).Once()
	suite.mockRepo.On("FindScreenBySlug", suite.ctx, "weg").Return(nil, apperrors.ErrNotFound).Once()

	screen, err := suite.screenService.GetPublicScreen(suite.ctx, "inkom")
	suite.Require().NoError(err)
	suite.Equal("s1", screen.ScreenID)

	_, err = suite.screenService.GetPublicScreen(suite.ctx, "archief")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.screenService.GetPublicScreen(suite.ctx, "weg")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ScreenServiceTestSuite) TestUpdateScreen_PartialUpdate() {
	existing := &domain.PublicScreen{ScreenID: "s1", Slug: "inkom", Name: "Inkom", Kind: domain.ScreenAnnouncement, Title: "Oud", IsActive: true, RefreshSeconds: 60}
	suite.mockRepo.On("FindScreenByID", suite.ctx, "s1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateScreen", suite.ctx, mock.MatchedBy(func(s domain.PublicScreen) bool {
		return s.Title == "Nieuw" && s.Name == "Inkom" && s.LastUpdatedAt.Equal(testNow) && s.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	title := "Nieuw"
	screen, err := suite.screenService.UpdateScreen(suite.ctx, "s1", dto.UpdateScreenRequest{Title: &title}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("Nieuw", screen.Title)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ScreenServiceTestSuite) TestUpdateScreen_NoChanges() {
	existing := &domain.PublicScreen{ScreenID: "s1", Slug: "inkom", Title: "Zelfde"}
	suite.mockRepo.On("FindScreenByID", suite.ctx, "s1").Return(existing, nil).Once()

	title := "Zelfde"
	screen, err := suite.screenService.UpdateScreen(suite.ctx, "s1", dto.UpdateScreenRequest{Title: &title}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("s1", screen.ScreenID)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateScreen", mock.Anything, mock.Anything)
}

func (suite *ScreenServiceTestSuite) TestUpdateScreen_InvalidKind() {
	existing := &domain.PublicScreen{ScreenID: "s1", Kind: domain.ScreenAnnouncement}
	suite.mockRepo.On("FindScreenByID", suite.ctx, "s1").Return(existing, nil).Once()

	kind := domain.ScreenKind("WEATHER")
	_, err := suite.screenService.UpdateScreen(suite.ctx, "s1", dto.UpdateScreenRequest{Kind: &kind}, "user-2")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ScreenServiceTestSuite) TestDeleteScreen_NotFound() {
	suite.mockRepo.On("RemoveScreen", suite.ctx, "s9").Return(apperrors.ErrNotFound).Once()

	err := suite.screenService.DeleteScreen(suite.ctx, "s9")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestScreenService(t *testing.T) {
	suite.Run(t, new(ScreenServiceTestSuite))
}
