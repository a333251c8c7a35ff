package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

// CreateSession inserts a new session row.
func (s *PostgresStore) CreateSession(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	query := `INSERT INTO sessions (user_id, token_hash, ip, user_agent, expires_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, user_id, token_hash, ip, user_agent, expires_at, created_at`

	var out domain.Session
	err := s.db.QueryRowContext(ctx, query,
		sess.UserID, sess.TokenHash, sess.IP, sess.UserAgent, sess.ExpiresAt,
	).Scan(
		&out.ID, &out.UserID, &out.TokenHash, &out.IP, &out.UserAgent,
		&out.ExpiresAt, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &out, nil
}

// GetSessionByHash looks up a session by its token hash.
func (s *PostgresStore) GetSessionByHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `SELECT id, user_id, token_hash, ip, user_agent, expires_at, created_at
	          FROM sessions WHERE token_hash = $1`

	var sess domain.Session
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&sess.ID, &sess.UserID, &sess.TokenHash, &sess.IP, &sess.UserAgent,
		&sess.ExpiresAt, &sess.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// DeleteSessionByHash removes the session with the given token hash.
// Deleting an already-absent session is not an error.
func (s *PostgresStore) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM sessions WHERE token_hash = $1`
	if _, err := s.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions removes every session belonging to a user.
func (s *PostgresStore) DeleteUserSessions(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
