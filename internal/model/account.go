package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Access checks compare against
// these constants, never against ad-hoc strings.
type Role string

const (
	RoleUser        Role = "user"
	RoleBusiness    Role = "business"
	RoleInstitution Role = "institution"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBusiness, RoleInstitution, RoleAdmin:
		return true
	}
	return false
}

// Account is a platform account. The Points field is owned exclusively by
// the ledger; nothing outside the ledger repository writes it.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	Points       int64     `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
