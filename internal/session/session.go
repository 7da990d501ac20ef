// Package session resolves the visitor's session from a request and keeps
// the server-side session records that back sign-out and revocation.
package session

import (
	"errors"
	"time"
)

var (
	// ErrResolution means the session could not be determined. It is never
	// returned for a visitor who simply is not signed in.
	ErrResolution       = errors.New("session resolution failed")
	ErrSessionNotFound  = errors.New("session not found")
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrCorruptRecord    = errors.New("session record corrupt")
)

// Session is the server-verified identity of a signed-in visitor.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
