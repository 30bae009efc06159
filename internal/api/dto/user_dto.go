package dto

import (
	"time"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

// SessionUser is the public view of the signed-in user.
type SessionUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// LoginResponse is returned after a successful sign-in.
type LoginResponse struct {
	User       SessionUser `json:"user"`
	Expires    time.Time   `json:"expires"`
	RedirectTo string      `json:"redirectTo"`
}

// SessionResponse reports the current session; User is null when signed out.
type SessionResponse struct {
	User    *SessionUser `json:"user"`
	Expires *time.Time   `json:"expires,omitempty"`
}

// AdminOnboardRequest payload for creating another admin.
type AdminOnboardRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OnboardedUser identifies a freshly created admin.
type OnboardedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminOnboardResponse confirms admin creation.
type AdminOnboardResponse struct {
	Message string        `json:"message"`
	User    OnboardedUser `json:"user"`
}

// NewSessionUser maps a domain user.
func NewSessionUser(u *domain.User) SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
