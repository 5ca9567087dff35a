package mapping

import (
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/models"
)

func ToModelScreen(d domain.PublicScreen) models.PublicScreen {
	return models.PublicScreen{
		ScreenID:       d.ScreenID,
		Slug:           d.Slug,
		Name:           d.Name,
		Kind:           string(d.Kind),
		Title:          d.Title,
		Body:           d.Body,
		IsActive:       d.IsActive,
		RefreshSeconds: d.RefreshSeconds,
		SortOrder:      d.SortOrder,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainScreen(m models.PublicScreen) domain.PublicScreen {
	return domain.PublicScreen{
		ScreenID:       m.ScreenID,
		Slug:           m.Slug,
		Name:           m.Name,
		Kind:           domain.ScreenKind(m.Kind),
		Title:          m.Title,
		Body:           m.Body,
		IsActive:       m.IsActive,
		RefreshSeconds: m.RefreshSeconds,
		SortOrder:      m.SortOrder,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainScreenSlice(ms []models.PublicScreen) []domain.PublicScreen {
	ds := make([]domain.PublicScreen, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainScreen(m)
	}
	return ds
}
