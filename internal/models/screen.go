package models

// PublicScreen is a row of the public_screens table.
type PublicScreen struct {
	ScreenID       string `db:"screen_id"`
	Slug           string `db:"slug"`
	Name           string `db:"name"`
	Kind           string `db:"kind"`
	Title          string `db:"title"`
	Body           string `db:"body"`
	IsActive       bool   `db:"is_active"`
	RefreshSeconds int    `db:"refresh_seconds"`
	SortOrder      int    `db:"sort_order"`
	AuditFields
}
