package models

import "time"

// User represents a board member who can sign in.
type User struct {
	UserID       string  `db:"user_id"`
	Username     string  `db:"username"`
	Email        *string `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Name         string  `db:"name"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
