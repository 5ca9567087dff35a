package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
)

// ScreenRepository is the in-memory backing store for public screens.
type ScreenRepository struct {
	mu      sync.RWMutex
	screens map[string]domain.PublicScreen
}

func NewScreenRepository(seed ...domain.PublicScreen) *ScreenRepository {
	r := &ScreenRepository{screens: make(map[string]domain.PublicScreen, len(seed))}
	for _, s := range seed {
		r.screens[s.ScreenID] = s
	}
	return r
}

var _ portsrepo.ScreenRepositoryFacade = (*ScreenRepository)(nil)

func (r *ScreenRepository) ListScreens(ctx context.Context, activeOnly bool) ([]domain.PublicScreen, error) {
	r.mu.RLock()
	out := make([]domain.PublicScreen, 0, len(r.screens))
	for _, s := range r.screens {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (r *ScreenRepository) FindScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.screens[screenID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *ScreenRepository) FindScreenBySlug(ctx context.Context, slug string) (*domain.PublicScreen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.screens {
		if s.Slug == slug {
			found := s
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *ScreenRepository) SaveScreen(ctx context.Context, screen domain.PublicScreen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(screen.Slug, screen.ScreenID) {
		return apperrors.ErrDuplicate
	}
	if _, exists := r.screens[screen.ScreenID]; exists {
		return apperrors.ErrDuplicate
	}
	r.screens[screen.ScreenID] = screen
	return nil
}

func (r *ScreenRepository) UpdateScreen(ctx context.Context, screen domain.PublicScreen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.screens[screen.ScreenID]; !exists {
		return apperrors.ErrNotFound
	}
	if r.slugTaken(screen.Slug, screen.ScreenID) {
		return apperrors.ErrDuplicate
	}
	r.screens[screen.ScreenID] = screen
	return nil
}

func (r *ScreenRepository) RemoveScreen(ctx context.Context, screenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.screens[screenID]; !exists {
		return apperrors.ErrNotFound
	}
	delete(r.screens, screenID)
	return nil
}

// slugTaken must be called with the lock held.
func (r *ScreenRepository) slugTaken(slug, exceptID string) bool {
	for id, s := range r.screens {
		if id != exceptID && s.Slug == slug {
			return true
		}
	}
	return false
}
