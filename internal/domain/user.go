package domain

import "time"

// User represents a registered account in the system.
type User struct {
	ID            string    `json:"id"             db:"id"`
	Email         string    `json:"email"          db:"email"`
	PasswordHash  string    `json:"-"              db:"password_hash"` // never serialized to JSON
	FullName      string    `json:"full_name"      db:"full_name"`
	AvatarURL     string    `json:"avatar_url"     db:"avatar_url"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"     db:"updated_at"`
}

// Role labels assignable to a user. The set is closed.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserContext is the authenticated user context injected into request handlers.
type UserContext struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	SessionID string `json:"session_id"`
	IsAdmin   bool   `json:"is_admin"`
}

// AdminUser is the admin console's view of an account: profile plus role flag.
type AdminUser struct {
	User
	IsAdmin bool `json:"is_admin"`
}
