package entity

import (
	"bandmate-api/core/entity"

	"github.com/google/uuid"
)

// User is an account in the system. Password is null for Google-only accounts.
type User struct {
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash *string `db:"password_hash" json:"-"`
	AvatarURL    *string `db:"avatar_url" json:"avatar_url,omitempty"`
	GoogleID     *string `db:"google_id" json:"-"`
	IsAdmin      bool    `db:"is_admin" json:"is_admin"`
	entity.BaseEntity
}

// UserContact is the minimal projection needed to notify a user
type UserContact struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Email string    `db:"email" json:"email"`
}
