package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleArtist
}

// User is a marketplace account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
