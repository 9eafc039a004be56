package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.PredictionRepository = (*PredictionRepo)(nil)

// PredictionRepo implementación de PredictionRepository sobre PostgreSQL (usable con pool o tx).
type PredictionRepo struct {
	q Querier
}

// NewPredictionRepository construye el adaptador de predicciones. Pasar pool o tx (Querier).
func NewPredictionRepository(q Querier) *PredictionRepo {
	return &PredictionRepo{q: q}
}

// Create persiste una predicción.
func (r *PredictionRepo) Create(prediction *entity.Prediction) error {
	if prediction.ID == "" {
		prediction.ID = uuid.New().String()
	}
	query := `
		INSERT INTO predictions (id, type, predicted_value, confidence_score, prediction_for, horizon_hours, model_version, status, is_rush_hour, rush_probability, actual_value, accuracy_score, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		prediction.ID, prediction.Type, prediction.PredictedValue, prediction.ConfidenceScore,
		prediction.PredictionFor, prediction.HorizonHours, prediction.ModelVersion, prediction.Status,
		prediction.IsRushHour, prediction.RushProbability,
		prediction.ActualValue, prediction.AccuracyScore, prediction.VerifiedAt, prediction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// ListActiveInRange devuelve predicciones ACTIVE del tipo con prediction_for
// dentro de [from, to], ascendente por hora objetivo.
func (r *PredictionRepo) ListActiveInRange(ctx context.Context, predType string, from, to time.Time) ([]*entity.Prediction, error) {
	query := predictionSelect + `
		WHERE type = $1 AND status = 'active' AND prediction_for >= $2 AND prediction_for <= $3
		ORDER BY prediction_for ASC`
	rows, err := r.q.Query(ctx, query, predType, from, to)
	if err != nil {
		return nil, fmt.Errorf("list predictions in range: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListPendingVerification devuelve predicciones ACTIVE cuya hora objetivo ya
// transcurrió por completo (prediction_for + 1h <= before).
func (r *PredictionRepo) ListPendingVerification(ctx context.Context, before time.Time) ([]*entity.Prediction, error) {
	query := predictionSelect + `
		WHERE status = 'active' AND prediction_for + interval '1 hour' <= $1
		ORDER BY prediction_for ASC`
	rows, err := r.q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list pending verification: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// Verify registra el valor real y la precisión, y marca VERIFIED.
func (r *PredictionRepo) Verify(ctx context.Context, id string, actual, accuracy float64, verifiedAt time.Time) error {
	query := `
		UPDATE predictions
		SET status = 'verified', actual_value = $2, accuracy_score = $3, verified_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, actual, accuracy, verifiedAt)
	if err != nil {
		return fmt.Errorf("verify prediction: %w", err)
	}
	return nil
}

// ExpireOlderThan marca EXPIRED las predicciones ACTIVE anteriores al corte.
// Devuelve cuántas filas cambió.
func (r *PredictionRepo) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE predictions SET status = 'expired'
		WHERE status = 'active' AND prediction_for < $1`
	cmd, err := r.q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire predictions: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

const predictionSelect = `
	SELECT id, type, predicted_value, confidence_score, prediction_for, horizon_hours,
	       model_version, status, is_rush_hour, rush_probability,
	       actual_value, accuracy_score, verified_at, created_at
	FROM predictions`

func scanPredictions(rows pgx.Rows) ([]*entity.Prediction, error) {
	var list []*entity.Prediction
	for rows.Next() {
		var p entity.Prediction
		if err := rows.Scan(&p.ID, &p.Type, &p.PredictedValue, &p.ConfidenceScore,
			&p.PredictionFor, &p.HorizonHours, &p.ModelVersion, &p.Status,
			&p.IsRushHour, &p.RushProbability,
			&p.ActualValue, &p.AccuracyScore, &p.VerifiedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
