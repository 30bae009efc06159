package domain

import "time"

// Session is a resolved, server-attested view of the caller.
// Role comes from the user record, never from the browser-held token.
type Session struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries the admin capability.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
