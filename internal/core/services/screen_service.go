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
)

const defaultRefreshSeconds = 60

type screenService struct {
	BaseService
	screenRepo portsrepo.ScreenRepositoryFacade
}

// ScreenServiceOption is a functional option for configuring the screen service
type ScreenServiceOption func(*screenService)

// WithScreenClock replaces time.Now.
func WithScreenClock(now func() time.Time) ScreenServiceOption {
	return func(s *screenService) {
		s.clock = now
	}
}

// NewScreenService creates a screen service over an injected backing store.
func NewScreenService(repo portsrepo.ScreenRepositoryFacade, options ...ScreenServiceOption) portssvc.ScreenSvcFacade {
	svc := &screenService{screenRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ScreenSvcFacade = (*screenService)(nil)

func (s *screenService) ListScreens(ctx context.Context) ([]domain.PublicScreen, error) {
	screens, err := s.screenRepo.ListScreens(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list screens")
		return nil, err
	}
	return screens, nil
}

func (s *screenService) GetScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error) {
	return s.screenRepo.FindScreenByID(ctx, screenID)
}

func (s *screenService) GetPublicScreen(ctx context.Context, slug string) (*domain.PublicScreen, error) {
	screen, err := s.screenRepo.FindScreenBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !screen.IsActive {
		return nil, fmt.Errorf("screen %q is not active: %w", slug, apperrors.ErrNotFound)
	}
	return screen, nil
}

func (s *screenService) CreateScreen(ctx context.Context, req dto.CreateScreenRequest, userID string) (*domain.PublicScreen, error) {
	now := s.Now()
	screen := domain.PublicScreen{
		ScreenID:       uuid.NewString(),
		Slug:           req.Slug,
		Name:           req.Name,
		Kind:           req.Kind,
		Title:          req.Title,
		Body:           req.Body,
		IsActive:       true,
		RefreshSeconds: req.RefreshSeconds,
		SortOrder:      req.SortOrder,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.IsActive != nil {
		screen.IsActive = *req.IsActive
	}
	if screen.RefreshSeconds == 0 {
		screen.RefreshSeconds = defaultRefreshSeconds
	}
	if !screen.Kind.IsValid() {
		return nil, fmt.Errorf("unknown screen kind %q: %w", screen.Kind, apperrors.ErrValidation)
	}

	if err := s.screenRepo.SaveScreen(ctx, screen); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save screen", slog.String("slug", screen.Slug))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Screen created", slog.String("screen_id", screen.ScreenID), slog.String("slug", screen.Slug))
	return &screen, nil
}

func (s *screenService) UpdateScreen(ctx context.Context, screenID string, req dto.UpdateScreenRequest, userID string) (*domain.PublicScreen, error) {
	screen, err := s.screenRepo.FindScreenByID(ctx, screenID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Slug != nil && *req.Slug != screen.Slug {
		screen.Slug = *req.Slug
		updated = true
	}
	if req.Name != nil && *req.Name != screen.Name {
		screen.Name = *req.Name
		updated = true
	}
	if req.Kind != nil && *req.Kind != screen.Kind {
		if !req.Kind.IsValid() {
			return nil, fmt.Errorf("unknown screen kind %q: %w", *req.Kind, apperrors.ErrValidation)
		}
		screen.Kind = *req.Kind
		updated = true
	}
	if req.Title != nil && *req.Title != screen.Title {
		screen.Title = *req.Title
		updated = true
	}
	if req.Body != nil && *req.Body != screen.Body {
		screen.Body = *req.Body
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != screen.IsActive {
		screen.IsActive = *req.IsActive
		updated = true
	}
	if req.RefreshSeconds != nil && *req.RefreshSeconds != screen.RefreshSeconds {
		screen.RefreshSeconds = *req.RefreshSeconds
		updated = true
	}
	if req.SortOrder != nil && *req.SortOrder != screen.SortOrder {
		screen.SortOrder = *req.SortOrder
		updated = true
	}

	if !updated {
		return screen, nil
	}

	screen.LastUpdatedAt = s.Now()
	screen.LastUpdatedBy = userID
	if err := s.screenRepo.UpdateScreen(ctx, *screen); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update screen", slog.String("screen_id", screenID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Screen updated", slog.String("screen_id", screenID))
	return screen, nil
}

func (s *screenService) DeleteScreen(ctx context.Context, screenID string) error {
	if err := s.screenRepo.RemoveScreen(ctx, screenID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete screen", slog.String("screen_id", screenID))
		}
		return err
	}
	s.LogInfo(ctx, "Screen deleted", slog.String("screen_id", screenID))
	return nil
}
