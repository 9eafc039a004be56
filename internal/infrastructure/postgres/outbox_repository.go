package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo implementación de OutboxRepository sobre PostgreSQL (usable con
// pool o tx). El Create ocurre en la misma transacción que el cambio de estado
// que describe el evento; el dispatcher consume con el pool.
type OutboxRepo struct {
	q Querier
}

// NewOutboxRepository construye el adaptador del outbox. Pasar pool o tx (Querier).
func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// Create encola un evento pendiente.
func (r *OutboxRepo) Create(event *entity.OutboxEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO outbox_events (id, topic, payload, status, attempts, last_error, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.Topic, event.Payload, event.Status, event.Attempts,
		event.LastError, event.CreatedAt, event.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// ListPending devuelve eventos pendientes en orden de llegada. La publicación
// es at-least-once: con varios dispatchers un evento puede publicarse dos
// veces; los consumidores deduplican por id.
func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	query := `
		SELECT id, topic, payload, status, attempts, last_error, created_at, published_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboxEvent
	for rows.Next() {
		var e entity.OutboxEvent
		if err := rows.Scan(&e.ID, &e.Topic, &e.Payload, &e.Status, &e.Attempts,
			&e.LastError, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MarkPublished marca el evento como publicado.
func (r *OutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	query := `
		UPDATE outbox_events
		SET status = 'published', published_at = $2, attempts = attempts + 1, last_error = ''
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, publishedAt)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// MarkFailed registra un intento fallido; el evento vuelve a pending para que
// el siguiente ciclo lo reintente.
func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	query := `
		UPDATE outbox_events
		SET attempts = attempts + 1, last_error = $2
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, lastError)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	return nil
}
