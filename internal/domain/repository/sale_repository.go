package repository

import (
	"context"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// SaleWithCount es una venta junto con el número de líneas que contiene,
// para listados que no necesitan cargar el detalle completo.
type SaleWithCount struct {
	Sale       *entity.Sale
	ItemsCount int
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	ListRecent(ctx context.Context, limit int) ([]SaleWithCount, error)
}
