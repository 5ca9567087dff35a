package services

import (
	"context"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/dto"
)

// ScreenReaderSvc defines read operations for public screens
type ScreenReaderSvc interface {
	ListScreens(ctx context.Context) ([]domain.PublicScreen, error)
	GetScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error)

	// GetPublicScreen returns an active screen by slug. Inactive screens are reported as not found.
	GetPublicScreen(ctx context.Context, slug string) (*domain.PublicScreen, error)
}

// ScreenWriterSvc defines write operations for public screens
type ScreenWriterSvc interface {
	CreateScreen(ctx context.Context, req dto.CreateScreenRequest, userID string) (*domain.PublicScreen, error)
	UpdateScreen(ctx context.Context, screenID string, req dto.UpdateScreenRequest, userID string) (*domain.PublicScreen, error)
	DeleteScreen(ctx context.Context, screenID string) error
}

// ScreenSvcFacade combines all screen-related service interfaces
type ScreenSvcFacade interface {
	ScreenReaderSvc
	ScreenWriterSvc
}
