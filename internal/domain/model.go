package domain

import "time"

// MLModel is a registered prediction model managed from the admin console.
type MLModel struct {
	ID          string    `json:"id"           db:"id"`
	Name        string    `json:"name"         db:"name"`
	Description string    `json:"description"  db:"description"`
	APIEndpoint string    `json:"api_endpoint" db:"api_endpoint"`
	IsActive    bool      `json:"is_active"    db:"is_active"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// EmailTemplate is a named subject/body pair used for outbound mail.
// Body is a text/template with fields like {{.FullName}} and {{.Link}}.
type EmailTemplate struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Subject   string    `json:"subject"    db:"subject"`
	Body      string    `json:"body"       db:"body"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Well-known template names consumed by the auth flows.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplateResetPassword = "reset_password"
)
