package repository

import (
	"context"
	"time"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// OutboxRepository define el puerto de la bandeja de salida transaccional.
// Los eventos se insertan en la misma transacción que el cambio de negocio y
// un despachador los publica después en el broker.
type OutboxRepository interface {
	// Create inserta el evento como PENDING. Se invoca dentro de la tx del caso de uso.
	Create(event *entity.OutboxEvent) error

	// ListPending devuelve hasta `limit` eventos pendientes en orden de creación.
	ListPending(ctx context.Context, limit int) ([]*entity.OutboxEvent, error)

	// MarkPublished marca el evento como publicado.
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error

	// MarkFailed incrementa intentos y registra el último error.
	MarkFailed(ctx context.Context, id string, lastError string) error
}
