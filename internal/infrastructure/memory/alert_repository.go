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

// AlertRepo guarda alertas en memoria con las mismas reglas de transición
// compare-and-set del adaptador de postgres.
type AlertRepo struct {
	mu     sync.RWMutex
	alerts map[string]entity.Alert
}

var _ repository.AlertRepository = (*AlertRepo)(nil)

func NewAlertRepo() *AlertRepo {
	return &AlertRepo{alerts: make(map[string]entity.Alert)}
}

func (r *AlertRepo) Create(alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.alerts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *AlertRepo) FindActiveByTypeAndProduct(ctx context.Context, alertType, productID string) (*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var newest *entity.Alert
	for id := range r.alerts {
		a := r.alerts[id]
		if a.Status != entity.AlertStatusActive || a.Type != alertType || a.ProductID != productID {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			copied := a
			newest = &copied
		}
	}
	return newest, nil
}

func (r *AlertRepo) ListActive(ctx context.Context, alertType, severity string, limit int) ([]*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Alert, 0, len(r.alerts))
	for id := range r.alerts {
		a := r.alerts[id]
		if a.Status != entity.AlertStatusActive {
			continue
		}
		if alertType != "" && a.Type != alertType {
			continue
		}
		if severity != "" && a.Severity != severity {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *AlertRepo) Transition(ctx context.Context, id, target, actor string, from ...string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if a.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	now := time.Now()
	a.Status = target
	switch target {
	case entity.AlertStatusAcknowledged:
		a.AcknowledgedBy = actor
		a.AcknowledgedAt = &now
	case entity.AlertStatusResolved, entity.AlertStatusDismissed:
		a.ResolvedBy = actor
		a.ResolvedAt = &now
	}
	r.alerts[id] = a
	return true, nil
}

func (r *AlertRepo) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, a := range r.alerts {
		if a.Status != entity.AlertStatusActive || a.ExpiresAt == nil || a.ExpiresAt.After(now) {
			continue
		}
		a.Status = entity.AlertStatusExpired
		r.alerts[id] = a
		count++
	}
	return count, nil
}

func (r *AlertRepo) CountByTypeSince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(since, func(a entity.Alert) string { return a.Type })
}

func (r *AlertRepo) CountBySeveritySince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(since, func(a entity.Alert) string { return a.Severity })
}

func (r *AlertRepo) CountByStatusSince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(since, func(a entity.Alert) string { return a.Status })
}

func (r *AlertRepo) countSince(since time.Time, key func(entity.Alert) string) ([]repository.AlertStatusCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, a := range r.alerts {
		if a.CreatedAt.Before(since) {
			continue
		}
		counts[key(a)]++
	}
	out := make([]repository.AlertStatusCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, repository.AlertStatusCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
