package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/SscSPs/ledenbeheer/internal/models"
	"github.com/SscSPs/ledenbeheer/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const screenColumns = `
	screen_id, slug, name, kind, title, body, is_active, refresh_seconds, sort_order,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxScreenRepository struct {
	BaseRepository
}

func newPgxScreenRepository(pool *pgxpool.Pool) *PgxScreenRepository {
	return &PgxScreenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ScreenRepositoryFacade = (*PgxScreenRepository)(nil)

func scanScreen(row pgx.Row) (models.PublicScreen, error) {
	var m models.PublicScreen
	err := row.Scan(
		&m.ScreenID,
		&m.Slug,
		&m.Name,
		&m.Kind,
		&m.Title,
		&m.Body,
		&m.IsActive,
		&m.RefreshSeconds,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxScreenRepository) ListScreens(ctx context.Context, activeOnly bool) ([]domain.PublicScreen, error) {
	query := `SELECT ` + screenColumns + ` FROM public_screens`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, slug;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query public screens", err)
	}
	defer rows.Close()

	screens := make([]models.PublicScreen, 0)
	for rows.Next() {
		m, err := scanScreen(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan public screen row", err)
		}
		screens = append(screens, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating public screen rows", err)
	}
	return mapping.ToDomainScreenSlice(screens), nil
}

func (r *PgxScreenRepository) findOne(ctx context.Context, where string, arg any) (*domain.PublicScreen, error) {
	m, err := scanScreen(r.Pool.QueryRow(ctx, `SELECT `+screenColumns+` FROM public_screens WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find public screen", err)
	}
	screen := mapping.ToDomainScreen(m)
	return &screen, nil
}

func (r *PgxScreenRepository) FindScreenByID(ctx context.Context, screenID string) (*domain.PublicScreen, error) {
	return r.findOne(ctx, "screen_id = $1", screenID)
}

func (r *PgxScreenRepository) FindScreenBySlug(ctx context.Context, slug string) (*domain.PublicScreen, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

func (r *PgxScreenRepository) SaveScreen(ctx context.Context, screen domain.PublicScreen) error {
	m := mapping.ToModelScreen(screen)
	query := `INSERT INTO public_screens (` + screenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.Pool.Exec(ctx, query,
		m.ScreenID,
		m.Slug,
		m.Name,
		m.Kind,
		m.Title,
		m.Body,
		m.IsActive,
		m.RefreshSeconds,
		m.SortOrder,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("screen slug %q is taken: %w", m.Slug, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save public screen "+m.ScreenID, err)
	}
	return nil
}

func (r *PgxScreenRepository) UpdateScreen(ctx context.Context, screen domain.PublicScreen) error {
	m := mapping.ToModelScreen(screen)
	query := `
		UPDATE public_screens
		SET slug = $1, name = $2, kind = $3, title = $4, body = $5, is_active = $6,
		    refresh_seconds = $7, sort_order = $8, last_updated_at = $9, last_updated_by = $10
		WHERE screen_id = $11;`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Slug,
		m.Name,
		m.Kind,
		m.Title,
		m.Body,
		m.IsActive,
		m.RefreshSeconds,
		m.SortOrder,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ScreenID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("screen slug %q is taken: %w", m.Slug, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to update public screen "+m.ScreenID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxScreenRepository) RemoveScreen(ctx context.Context, screenID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM public_screens WHERE screen_id = $1;`, screenID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete public screen "+screenID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
