package domain

import "time"

// Session is a stored proof of authentication. The raw token is handed to
// the client exactly once at creation; only its SHA-256 hash is persisted.
type Session struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	TokenHash string    `json:"-"          db:"token_hash"`
	IP        string    `json:"ip"         db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// AuthSnapshot is the derived authentication/authorization state published
// after every auth transition. Snapshots are value copies, never mutated
// after publication; Version increases strictly within one user's stream.
type AuthSnapshot struct {
	Version         uint64 `json:"version"`
	UserID          string `json:"user_id,omitempty"`
	Email           string `json:"email,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsAdmin         bool   `json:"is_admin"`
}
