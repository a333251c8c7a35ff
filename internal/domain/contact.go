package domain

import "time"

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Message   string    `json:"message"    db:"message"`
	IsRead    bool      `json:"is_read"    db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
