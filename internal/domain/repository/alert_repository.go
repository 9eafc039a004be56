package repository

import (
	"context"
	"time"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// AlertStatusCount agregado de alertas por dimensión (tipo, severidad o estado).
type AlertStatusCount struct {
	Key   string
	Count int
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// FindActiveByTypeAndProduct localiza una alerta ACTIVE del mismo tipo para
	// el mismo producto (deduplicación). productID vacío busca alertas globales.
	FindActiveByTypeAndProduct(ctx context.Context, alertType, productID string) (*entity.Alert, error)
	ListActive(ctx context.Context, alertType, severity string, limit int) ([]*entity.Alert, error)

	// Transition cambia el estado solo si el registro sigue en alguno de los
	// estados origen indicados (compare-and-set en un solo UPDATE). Devuelve
	// false si la fila ya no estaba en un estado origen.
	Transition(ctx context.Context, id, target, actor string, from ...string) (bool, error)

	// SweepExpired pasa a EXPIRED toda alerta ACTIVE con expires_at <= now.
	// Idempotente; devuelve cuántas filas cambió.
	SweepExpired(ctx context.Context, now time.Time) (int, error)

	// Estadísticas del período [since, now] para get_alert_statistics.
	CountByTypeSince(ctx context.Context, since time.Time) ([]AlertStatusCount, error)
	CountBySeveritySince(ctx context.Context, since time.Time) ([]AlertStatusCount, error)
	CountByStatusSince(ctx context.Context, since time.Time) ([]AlertStatusCount, error)
}
