package store

import (
	"context"
	"fmt"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

// CreateContactMessage inserts a message from the public contact form.
func (s *PostgresStore) CreateContactMessage(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	query := `INSERT INTO contact_messages (name, email, message)
	          VALUES ($1, $2, $3)
	          RETURNING id, name, email, message, is_read, created_at`

	var out domain.ContactMessage
	err := s.db.QueryRowContext(ctx, query, m.Name, m.Email, m.Message).Scan(
		&out.ID, &out.Name, &out.Email, &out.Message, &out.IsRead, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &out, nil
}

// ListContactMessages returns all contact messages, newest first.
func (s *PostgresStore) ListContactMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	query := `SELECT id, name, email, message, is_read, created_at
	          FROM contact_messages ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkMessageRead flags a contact message as read.
func (s *PostgresStore) MarkMessageRead(ctx context.Context, id string) error {
	query := `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrMessageNotFound
	}
	return nil
}

// DeleteContactMessage removes a contact message.
func (s *PostgresStore) DeleteContactMessage(ctx context.Context, id string) error {
	query := `DELETE FROM contact_messages WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrMessageNotFound
	}
	return nil
}
