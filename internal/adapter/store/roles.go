package store

import (
	"context"
	"fmt"
)

// HasRole reports whether a (user, role) grant exists. The result is a
// pure function of the current user_roles contents.
func (s *PostgresStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, role).Scan(&exists); err != nil {
		return false, fmt.Errorf("has role: %w", err)
	}
	return exists, nil
}

// GrantRole inserts a role assignment; granting an already-held role is a no-op.
func (s *PostgresStore) GrantRole(ctx context.Context, userID, role string) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	          ON CONFLICT (user_id, role) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// RevokeRole deletes a role assignment; revoking an absent role is a no-op.
func (s *PostgresStore) RevokeRole(ctx context.Context, userID, role string) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
	if _, err := s.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

// ListUserIDsWithRole returns the IDs of every user holding the given role.
func (s *PostgresStore) ListUserIDsWithRole(ctx context.Context, role string) ([]string, error) {
	query := `SELECT user_id FROM user_roles WHERE role = $1`

	rows, err := s.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list role holders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role holder: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
