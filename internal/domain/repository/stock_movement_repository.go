package repository

import (
	"context"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos (append-only: las entradas nunca se modifican ni se borran).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// List devuelve movimientos recientes, del más nuevo al más viejo.
	// productID vacío lista todos los productos.
	List(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
}
