package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tron16/SolarScheduler/internal/domain"
)

// SavePrediction persists one issued prediction with its raw inputs and
// the encoded feature vector.
func (s *PostgresStore) SavePrediction(ctx context.Context, p *domain.Prediction) (*domain.Prediction, error) {
	inputs, err := json.Marshal(p.Inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}
	features, err := json.Marshal(p.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	query := `INSERT INTO predictions (user_id, inputs, features, predicted_hours)
	          VALUES ($1, $2::jsonb, $3::jsonb, $4)
	          RETURNING id, created_at`

	out := *p
	err = s.db.QueryRowContext(ctx, query, p.UserID, inputs, features, p.PredictedHours).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save prediction: %w", err)
	}
	return &out, nil
}

// ListPredictionsByUser returns a user's prediction history, newest first.
func (s *PostgresStore) ListPredictionsByUser(ctx context.Context, userID string) ([]domain.Prediction, error) {
	query := `SELECT id, user_id, inputs::text, features::text, predicted_hours, created_at
	          FROM predictions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 200`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var preds []domain.Prediction
	for rows.Next() {
		var (
			p                domain.Prediction
			inputs, features string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &inputs, &features, &p.PredictedHours, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &p.Inputs); err != nil {
			return nil, fmt.Errorf("decode inputs: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, fmt.Errorf("decode features: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// SaveTrainingSample persists a completed installation for retraining.
func (s *PostgresStore) SaveTrainingSample(ctx context.Context, sample *domain.TrainingSample) (*domain.TrainingSample, error) {
	inputs, err := json.Marshal(sample.Inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}

	query := `INSERT INTO training_samples (user_id, inputs, actual_install_time)
	          VALUES ($1, $2::jsonb, $3)
	          RETURNING id, created_at`

	out := *sample
	err = s.db.QueryRowContext(ctx, query, sample.UserID, inputs, sample.ActualInstallTime).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save training sample: %w", err)
	}
	return &out, nil
}

// ListTrainingSamples returns all submitted training samples, newest first.
func (s *PostgresStore) ListTrainingSamples(ctx context.Context) ([]domain.TrainingSample, error) {
	query := `SELECT id, user_id, inputs::text, actual_install_time, created_at
	          FROM training_samples ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list training samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.TrainingSample
	for rows.Next() {
		var (
			sample domain.TrainingSample
			inputs string
		)
		if err := rows.Scan(&sample.ID, &sample.UserID, &inputs, &sample.ActualInstallTime, &sample.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan training sample: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &sample.Inputs); err != nil {
			return nil, fmt.Errorf("decode inputs: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
