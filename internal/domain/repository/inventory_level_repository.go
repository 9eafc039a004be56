package repository

import (
	"context"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// InventoryStatusRow resultado crudo del repositorio para el estado de inventario
// de un producto: nivel actual más los umbrales del catálogo.
type InventoryStatusRow struct {
	ProductID         string
	SKU               string
	ProductName       string
	Category          string
	CurrentQuantity   int
	ReservedQuantity  int
	AvailableQuantity int
	MinStockLevel     int
	ReorderPoint      int
	MaxStockLevel     int
}

// InventoryLevelRepository define el puerto para consultar/actualizar el nivel
// de stock por producto+ubicación (DIP). Las mutaciones ocurren dentro de
// transacciones del ledger para garantizar consistencia.
type InventoryLevelRepository interface {
	Get(productID, locationID string) (*entity.InventoryLevel, error)
	Upsert(level *entity.InventoryLevel) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si la fila
	// no existe devuelve un nivel en cero (creación perezosa en el Upsert).
	GetForUpdate(productID, locationID string) (*entity.InventoryLevel, error)

	// ListStatus devuelve el estado de inventario de productos con seguimiento,
	// opcionalmente filtrado por producto.
	ListStatus(ctx context.Context, productID string) ([]InventoryStatusRow, error)
	// ListBelowThreshold devuelve productos con disponible <= umbral. Con
	// threshold nil se usa el ReorderPoint propio de cada producto.
	ListBelowThreshold(ctx context.Context, threshold *int) ([]InventoryStatusRow, error)
}
