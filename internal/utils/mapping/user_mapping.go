package mapping

import (
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/models"
)

// ToModelUser converts a domain User to a model User. An empty e-mail is stored as NULL.
func ToModelUser(d domain.User) models.User {
	var email *string
	if d.Email != "" {
		e := d.Email
		email = &e
	}
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Email:        email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	u := domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
	if m.Email != nil {
		u.Email = *m.Email
	}
	return u
}
