// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"time"

	"github.com/tomtom215/velora/internal/models"
)

const predictionColumns = `id, user_id, age, systolic_bp, diastolic_bp, blood_sugar, body_temp, heart_rate,
	risk_level, prediction_result, created_at`

// PredictionStore persists rows of health_predictions.
type PredictionStore struct {
	db DBTX
}

// NewPredictionStore binds a PredictionStore to a pool or transaction.
func NewPredictionStore(db DBTX) *PredictionStore {
	return &PredictionStore{db: db}
}

func scanPrediction(row scanner) (*models.Prediction, error) {
	p := &models.Prediction{}
	var result []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.Age, &p.SystolicBP, &p.DiastolicBP, &p.BloodSugar, &p.BodyTemp, &p.HeartRate,
		&p.RiskLevel, &result, &p.CreatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	p.Result = result
	return p, nil
}

// Create stores a prediction. An empty Result is written as an empty object.
func (s *PredictionStore) Create(ctx context.Context, p *models.Prediction) (out *models.Prediction, err error) {
	defer observe("insert", tablePredictions, time.Now(), &err)

	result := string(p.Result)
	if result == "" {
		result = "{}"
	}
	query := `INSERT INTO health_predictions
			(user_id, age, systolic_bp, diastolic_bp, blood_sugar, body_temp, heart_rate, risk_level, prediction_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		RETURNING ` + predictionColumns
	return scanPrediction(s.db.QueryRowContext(ctx, query,
		p.UserID, p.Age, p.SystolicBP, p.DiastolicBP, p.BloodSugar, p.BodyTemp, p.HeartRate, string(p.RiskLevel), result,
	))
}

// ListByUser returns one page of an account's predictions, newest first,
// together with the account's total count.
func (s *PredictionStore) ListByUser(ctx context.Context, userID string, limit, offset int) (items []*models.Prediction, total int, err error) {
	defer observe("select", tablePredictions, time.Now(), &err)

	if err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM health_predictions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	query := `SELECT ` + predictionColumns + ` FROM health_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer closeQuietly(rows)

	items = make([]*models.Prediction, 0, limit)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, classify(err)
	}
	return items, total, nil
}

// GetByID returns a prediction by id. Ownership is checked by the caller.
func (s *PredictionStore) GetByID(ctx context.Context, id string) (p *models.Prediction, err error) {
	defer observe("select", tablePredictions, time.Now(), &err)

	query := `SELECT ` + predictionColumns + ` FROM health_predictions WHERE id = $1`
	return scanPrediction(s.db.QueryRowContext(ctx, query, id))
}

// Latest returns the account's most recent prediction.
func (s *PredictionStore) Latest(ctx context.Context, userID string) (p *models.Prediction, err error) {
	defer observe("select", tablePredictions, time.Now(), &err)

	query := `SELECT ` + predictionColumns + ` FROM health_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return scanPrediction(s.db.QueryRowContext(ctx, query, userID))
}

// Delete removes a prediction owned by userID.
func (s *PredictionStore) Delete(ctx context.Context, id, userID string) (err error) {
	defer observe("delete", tablePredictions, time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM health_predictions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// CountByRisk tallies an account's predictions per tier. A nil since counts all of them.
func (s *PredictionStore) CountByRisk(ctx context.Context, userID string, since *time.Time) (counts models.RiskCounts, err error) {
	defer observe("select", tablePredictions, time.Now(), &err)

	query := `SELECT
			count(*),
			count(*) FILTER (WHERE risk_level = 'high risk'),
			count(*) FILTER (WHERE risk_level = 'mid risk'),
			count(*) FILTER (WHERE risk_level = 'low risk')
		FROM health_predictions
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)`
	err = s.db.QueryRowContext(ctx, query, userID, since).Scan(&counts.Total, &counts.High, &counts.Mid, &counts.Low)
	if err != nil {
		return models.RiskCounts{}, classify(err)
	}
	return counts, nil
}
