package domain

import (
	"errors"
	"time"
)

// Role is the capability attached to a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ErrInvalidRole is returned when a user is stored with a role outside the known set.
var ErrInvalidRole = errors.New("domain: invalid role")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account that can sign in to the dashboard.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
