package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category" validate:"omitempty,max=100"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	ReorderPoint  int             `json:"reorder_point" validate:"min=0"`
	MaxStockLevel int             `json:"max_stock_level" validate:"min=0"`
	IsTracked     *bool           `json:"is_tracked"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Cost          *decimal.Decimal `json:"cost"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	ReorderPoint  *int             `json:"reorder_point" validate:"omitempty,min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	IsTracked     *bool            `json:"is_tracked"`
	IsActive      *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
	ReorderPoint  int             `json:"reorder_point"`
	MaxStockLevel int             `json:"max_stock_level"`
	IsTracked     bool            `json:"is_tracked"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
