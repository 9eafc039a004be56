package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de inventario derivados de los umbrales del producto.
const (
	StockStatusOutOfStock    = "out_of_stock"
	StockStatusLowStock      = "low_stock"
	StockStatusReorderNeeded = "reorder_needed"
	StockStatusOverstocked   = "overstocked"
	StockStatusNormal        = "normal"
)

// Product representa un producto o SKU del catálogo de la tienda.
// Los umbrales (MinStockLevel <= ReorderPoint <= MaxStockLevel) gobiernan
// las alertas de stock; IsTracked indica si el ledger controla su inventario.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Category      string
	Cost          decimal.Decimal // costo de compra
	Price         decimal.Decimal // precio de venta
	MinStockLevel int
	ReorderPoint  int
	MaxStockLevel int
	IsTracked     bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateThresholds verifica el invariante 0 <= min <= reorden <= max.
func (p *Product) ValidateThresholds() bool {
	return p.MinStockLevel >= 0 &&
		p.MinStockLevel <= p.ReorderPoint &&
		p.ReorderPoint <= p.MaxStockLevel
}

// StockStatus clasifica una cantidad disponible según los umbrales del producto.
func (p *Product) StockStatus(available int) string {
	switch {
	case available <= 0:
		return StockStatusOutOfStock
	case available <= p.MinStockLevel:
		return StockStatusLowStock
	case available <= p.ReorderPoint:
		return StockStatusReorderNeeded
	case p.MaxStockLevel > 0 && available >= p.MaxStockLevel:
		return StockStatusOverstocked
	default:
		return StockStatusNormal
	}
}
