// Package memory implementa los puertos de repositorio sobre estructuras en
// memoria. Respalda los tests de casos de uso y permite levantar la API sin
// PostgreSQL en demos locales. La semántica replica la de los adaptadores de
// postgres: mismos errores de dominio, mismos órdenes de listado.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// ProductRepo guarda productos en un mapa por id.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[string]entity.Product)}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.Product, 0, len(r.products))
	for id := range r.products {
		p := r.products[id]
		if activeOnly && !p.IsActive {
			continue
		}
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
