package dto

import (
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
)

// CreateScreenRequest defines the data needed to create a public screen.
type CreateScreenRequest struct {
	Slug           string            `json:"slug" binding:"required,slug"`
	Name           string            `json:"name" binding:"required,max=100"`
	Kind           domain.ScreenKind `json:"kind" binding:"required,screenkind"`
	Title          string            `json:"title" binding:"max=200"`
	Body           string            `json:"body"`
	IsActive       *bool             `json:"isActive"` // Optional, defaults to true
	RefreshSeconds int               `json:"refreshSeconds" binding:"omitempty,min=5,max=86400"`
	SortOrder      int               `json:"sortOrder"`
}

// UpdateScreenRequest defines the fields that can change on a screen.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateScreenRequest struct {
	Slug           *string            `json:"slug" binding:"omitempty,slug"`
	Name           *string            `json:"name" binding:"omitempty,max=100"`
	Kind           *domain.ScreenKind `json:"kind" binding:"omitempty,screenkind"`
	Title          *string            `json:"title" binding:"omitempty,max=200"`
	Body           *string            `json:"body"`
	IsActive       *bool              `json:"isActive"`
	RefreshSeconds *int               `json:"refreshSeconds" binding:"omitempty,min=5,max=86400"`
	SortOrder      *int               `json:"sortOrder"`
}

// ScreenResponse is the administrative view of a screen.
type ScreenResponse struct {
	ScreenID       string            `json:"screenID"`
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	Kind           domain.ScreenKind `json:"kind"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	IsActive       bool              `json:"isActive"`
	RefreshSeconds int               `json:"refreshSeconds"`
	SortOrder      int               `json:"sortOrder"`
	CreatedAt      time.Time         `json:"createdAt"`
	CreatedBy      string            `json:"createdBy"`
	LastUpdatedAt  time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy  string            `json:"lastUpdatedBy"`
}

// PublicScreenResponse is what an unauthenticated display receives.
type PublicScreenResponse struct {
	Slug           string            `json:"slug"`
	Kind           domain.ScreenKind `json:"kind"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	RefreshSeconds int               `json:"refreshSeconds"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func ToScreenResponse(s *domain.PublicScreen) ScreenResponse {
	return ScreenResponse{
		ScreenID:       s.ScreenID,
		Slug:           s.Slug,
		Name:           s.Name,
		Kind:           s.Kind,
		Title:          s.Title,
		Body:           s.Body,
		IsActive:       s.IsActive,
		RefreshSeconds: s.RefreshSeconds,
		SortOrder:      s.SortOrder,
		CreatedAt:      s.CreatedAt,
		CreatedBy:      s.CreatedBy,
		LastUpdatedAt:  s.LastUpdatedAt,
		LastUpdatedBy:  s.LastUpdatedBy,
	}
}

func ToPublicScreenResponse(s *domain.PublicScreen) PublicScreenResponse {
	return PublicScreenResponse{
		Slug:           s.Slug,
		Kind:           s.Kind,
		Title:          s.Title,
		Body:           s.Body,
		RefreshSeconds: s.RefreshSeconds,
		UpdatedAt:      s.LastUpdatedAt,
	}
}
