package session

import (
	"context"
	"time"
)

// Record is the server-side half of a session. It only points at the user;
// role and profile are loaded from the user record on every resolution.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is no longer valid at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Store persists session records.
type Store interface {
	Create(ctx context.Context, r Record) error
	// Get returns (nil, nil) when the record does not exist.
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}
