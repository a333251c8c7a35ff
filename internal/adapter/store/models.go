package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

const modelColumns = `id, name, description, api_endpoint, is_active, created_at, updated_at`

// CreateModel registers a new prediction model.
func (s *PostgresStore) CreateModel(ctx context.Context, m *domain.MLModel) (*domain.MLModel, error) {
	query := `INSERT INTO ml_models (name, description, api_endpoint, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + modelColumns

	var out domain.MLModel
	err := s.db.QueryRowContext(ctx, query, m.Name, m.Description, m.APIEndpoint, m.IsActive).Scan(
		&out.ID, &out.Name, &out.Description, &out.APIEndpoint, &out.IsActive,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	return &out, nil
}

// ListModels returns all registered models, newest first.
func (s *PostgresStore) ListModels(ctx context.Context) ([]domain.MLModel, error) {
	query := `SELECT ` + modelColumns + ` FROM ml_models ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []domain.MLModel
	for rows.Next() {
		var m domain.MLModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.APIEndpoint, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// UpdateModel replaces a model's editable fields.
func (s *PostgresStore) UpdateModel(ctx context.Context, m *domain.MLModel) (*domain.MLModel, error) {
	query := `UPDATE ml_models
	          SET name = $1, description = $2, api_endpoint = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING ` + modelColumns

	var out domain.MLModel
	err := s.db.QueryRowContext(ctx, query, m.Name, m.Description, m.APIEndpoint, m.ID).Scan(
		&out.ID, &out.Name, &out.Description, &out.APIEndpoint, &out.IsActive,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrModelNotFound
		}
		return nil, fmt.Errorf("update model: %w", err)
	}
	return &out, nil
}

// SetModelActive toggles a model's active flag.
func (s *PostgresStore) SetModelActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE ml_models SET is_active = $1, updated_at = NOW() WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set model active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrModelNotFound
	}
	return nil
}

// DeleteModel removes a model from the registry.
func (s *PostgresStore) DeleteModel(ctx context.Context, id string) error {
	query := `DELETE FROM ml_models WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrModelNotFound
	}
	return nil
}
