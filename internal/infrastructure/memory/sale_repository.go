package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// SaleRepo guarda ventas y líneas. Replica la restricción UNIQUE sobre
// transaction_id devolviendo domain.ErrDuplicate.
type SaleRepo struct {
	mu    sync.RWMutex
	sales map[string]entity.Sale
	items map[string][]entity.SaleItem
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

func NewSaleRepo() *SaleRepo {
	return &SaleRepo{
		sales: make(map[string]entity.Sale),
		items: make(map[string][]entity.SaleItem),
	}
}

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	for _, s := range r.sales {
		if s.TransactionID == sale.TransactionID {
			return domain.ErrDuplicate
		}
	}
	r.sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.SaleID] = append(r.items[item.SaleID], *item)
	return nil
}

func (r *SaleRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sales {
		if s.TransactionID == transactionID {
			sale := s
			return &sale, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.items[saleID]
	out := make([]*entity.SaleItem, 0, len(stored))
	for i := range stored {
		item := stored[i]
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]repository.SaleWithCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repository.SaleWithCount, 0, len(r.sales))
	for id := range r.sales {
		sale := r.sales[id]
		if sale.Status != entity.SaleStatusCompleted {
			continue
		}
		out = append(out, repository.SaleWithCount{
			Sale:       &sale,
			ItemsCount: len(r.items[sale.ID]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sale.CreatedAt.After(out[j].Sale.CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
