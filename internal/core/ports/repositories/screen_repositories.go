package repositories

import (
	"context"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// ScreenReader defines read operations for public screens
type ScreenReader interface {
	// ListScreens returns screens ordered by sort order, optionally only active ones.
	ListScreens(ctx context.Context, activeOnly bool) ([]domain.PublicScreen, error)
	FindScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error)
	FindScreenBySlug(ctx context.Context, slug string) (*domain.PublicScreen, error)
}

// ScreenWriter defines write operations for public screens
type ScreenWriter interface {
	// SaveScreen persists a new screen. Returns apperrors.ErrDuplicate when the slug is taken.
	SaveScreen(ctx context.Context, screen domain.PublicScreen) error
	// UpdateScreen replaces an existing screen.
	UpdateScreen(ctx context.Context, screen domain.PublicScreen) error
	// RemoveScreen deletes a screen. Returns apperrors.ErrNotFound when absent.
	RemoveScreen(ctx context.Context, screenID string) error
}

// ScreenRepositoryFacade combines all screen repository interfaces
type ScreenRepositoryFacade interface {
	ScreenReader
	ScreenWriter
}
