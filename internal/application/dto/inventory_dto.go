package dto

import "time"

// AdjustStockRequest body para PUT /api/inventory/update.
// Quantity es el delta con signo: positivo entra, negativo sale.
type AdjustStockRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	LocationID    string `json:"location_id" validate:"omitempty,max=100"`
	Quantity      int    `json:"quantity" validate:"required"`
	MovementType  string `json:"movement_type" validate:"required,oneof=purchase adjustment return damaged expired"`
	ReferenceID   string `json:"reference_id" validate:"omitempty,max=100"`
	ReferenceType string `json:"reference_type" validate:"omitempty,max=50"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
}

// StockMovementResponse salida de un movimiento del libro de inventario.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	LocationID       string    `json:"location_id"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	MovementType     string    `json:"movement_type"`
	ReferenceID      string    `json:"reference_id,omitempty"`
	ReferenceType    string    `json:"reference_type,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by,omitempty"`
}

// InventoryStatusItem estado de stock de un producto con su clasificación.
// DaysOfStock solo se calcula en el listado de bajo stock (ventas de 30 días).
type InventoryStatusItem struct {
	ProductID         string   `json:"product_id"`
	SKU               string   `json:"sku"`
	ProductName       string   `json:"product_name"`
	Category          string   `json:"category"`
	CurrentQuantity   int      `json:"current_quantity"`
	ReservedQuantity  int      `json:"reserved_quantity"`
	AvailableQuantity int      `json:"available_quantity"`
	MinStockLevel     int      `json:"min_stock_level"`
	ReorderPoint      int      `json:"reorder_point"`
	MaxStockLevel     int      `json:"max_stock_level"`
	StockStatus       string   `json:"stock_status"`
	DaysOfStock       *float64 `json:"days_of_stock,omitempty"`
}

// InventoryStatusResponse respuesta de GET /api/inventory/status.
type InventoryStatusResponse struct {
	Items []InventoryStatusItem `json:"items"`
	Total int                   `json:"total"`
}

// LowStockResponse respuesta de GET /api/inventory/low-stock.
type LowStockResponse struct {
	Items []InventoryStatusItem `json:"items"`
	Total int                   `json:"total"`
}
