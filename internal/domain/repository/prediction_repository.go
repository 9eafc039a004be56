package repository

import (
	"context"
	"time"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// PredictionRepository define el puerto de persistencia para predicciones.
type PredictionRepository interface {
	Create(prediction *entity.Prediction) error
	// ListActiveInRange devuelve predicciones ACTIVE con prediction_for dentro
	// de [from, to], ordenadas ascendente por hora objetivo.
	ListActiveInRange(ctx context.Context, predType string, from, to time.Time) ([]*entity.Prediction, error)
	// ListPendingVerification devuelve predicciones ACTIVE cuya hora objetivo ya
	// transcurrió por completo (prediction_for + 1h <= before).
	ListPendingVerification(ctx context.Context, before time.Time) ([]*entity.Prediction, error)
	// Verify registra valor real y precisión, y marca VERIFIED.
	Verify(ctx context.Context, id string, actual, accuracy float64, verifiedAt time.Time) error
	// ExpireOlderThan marca EXPIRED las predicciones ACTIVE con prediction_for
	// anterior al corte. Devuelve cuántas filas cambió.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
