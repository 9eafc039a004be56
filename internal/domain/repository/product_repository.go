package repository

import "github.com/shoptrack/pos-api/internal/domain/entity"

// ProductRepository persistencia del catálogo. La baja es lógica (Update con
// IsActive en false), por eso no hay Delete.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(activeOnly bool, limit, offset int) ([]*entity.Product, error)
}
