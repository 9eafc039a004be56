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

// PredictionRepo guarda predicciones en memoria.
type PredictionRepo struct {
	mu          sync.RWMutex
	predictions map[string]entity.Prediction
}

var _ repository.PredictionRepository = (*PredictionRepo)(nil)

func NewPredictionRepo() *PredictionRepo {
	return &PredictionRepo{predictions: make(map[string]entity.Prediction)}
}

func (r *PredictionRepo) Create(prediction *entity.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prediction.ID == "" {
		prediction.ID = uuid.New().String()
	}
	r.predictions[prediction.ID] = *prediction
	return nil
}

func (r *PredictionRepo) ListActiveInRange(ctx context.Context, predType string, from, to time.Time) ([]*entity.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Prediction, 0)
	for id := range r.predictions {
		p := r.predictions[id]
		if p.Status != entity.PredictionStatusActive || p.Type != predType {
			continue
		}
		if p.PredictionFor.Before(from) || p.PredictionFor.After(to) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PredictionFor.Before(out[j].PredictionFor) })
	return out, nil
}

func (r *PredictionRepo) ListPendingVerification(ctx context.Context, before time.Time) ([]*entity.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Prediction, 0)
	for id := range r.predictions {
		p := r.predictions[id]
		if p.Status != entity.PredictionStatusActive {
			continue
		}
		if p.PredictionFor.Add(time.Hour).After(before) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PredictionFor.Before(out[j].PredictionFor) })
	return out, nil
}

func (r *PredictionRepo) Verify(ctx context.Context, id string, actual, accuracy float64, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.predictions[id]
	if !ok {
		return nil
	}
	p.Status = entity.PredictionStatusVerified
	p.ActualValue = &actual
	p.AccuracyScore = &accuracy
	p.VerifiedAt = &verifiedAt
	r.predictions[id] = p
	return nil
}

func (r *PredictionRepo) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, p := range r.predictions {
		if p.Status != entity.PredictionStatusActive || !p.PredictionFor.Before(cutoff) {
			continue
		}
		p.Status = entity.PredictionStatusExpired
		r.predictions[id] = p
		count++
	}
	return count, nil
}
