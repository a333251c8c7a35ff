package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

const templateColumns = `id, name, subject, body, is_active, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*domain.EmailTemplate, error) {
	var t domain.EmailTemplate
	err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts a new email template.
func (s *PostgresStore) CreateTemplate(ctx context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	query := `INSERT INTO email_templates (name, subject, body, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + templateColumns

	out, err := scanTemplate(s.db.QueryRowContext(ctx, query, t.Name, t.Subject, t.Body, t.IsActive))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return out, nil
}

// GetActiveTemplate returns the active template with the given name, if any.
func (s *PostgresStore) GetActiveTemplate(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM email_templates
	          WHERE name = $1 AND is_active = TRUE`

	out, err := scanTemplate(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get active template: %w", err)
	}
	return out, nil
}

// ListTemplates returns all email templates, newest first.
func (s *PostgresStore) ListTemplates(ctx context.Context) ([]domain.EmailTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM email_templates ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.EmailTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// UpdateTemplate replaces a template's editable fields.
func (s *PostgresStore) UpdateTemplate(ctx context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	query := `UPDATE email_templates
	          SET name = $1, subject = $2, body = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING ` + templateColumns

	out, err := scanTemplate(s.db.QueryRowContext(ctx, query, t.Name, t.Subject, t.Body, t.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("update template: %w", err)
	}
	return out, nil
}

// SetTemplateActive toggles a template's active flag.
func (s *PostgresStore) SetTemplateActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE email_templates SET is_active = $1, updated_at = NOW() WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set template active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrTemplateNotFound
	}
	return nil
}

// DeleteTemplate removes an email template.
func (s *PostgresStore) DeleteTemplate(ctx context.Context, id string) error {
	query := `DELETE FROM email_templates WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrTemplateNotFound
	}
	return nil
}
