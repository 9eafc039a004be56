package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// OutboxRepo guarda la bandeja de salida en memoria.
type OutboxRepo struct {
	mu     sync.RWMutex
	events map[string]entity.OutboxEvent
}

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{events: make(map[string]entity.OutboxEvent)}
}

func (r *OutboxRepo) Create(event *entity.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.OutboxEvent, 0)
	for id := range r.events {
		e := r.events[id]
		if e.Status != entity.OutboxStatusPending {
			continue
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil
	}
	e.Status = entity.OutboxStatusPublished
	e.PublishedAt = &publishedAt
	e.Attempts++
	e.LastError = ""
	r.events[id] = e
	return nil
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil
	}
	e.Attempts++
	e.LastError = lastError
	r.events[id] = e
	return nil
}
