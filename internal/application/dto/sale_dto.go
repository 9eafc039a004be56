package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta del request.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RecordSaleRequest body para POST /api/sales/checkout.
// UnitPrice por línea es opcional: si viene en cero se usa el precio del catálogo.
type RecordSaleRequest struct {
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=cash card mobile other"`
	CustomerID     string            `json:"customer_id" validate:"omitempty,max=100"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxRate        decimal.Decimal   `json:"tax_rate"`
	Notes          string            `json:"notes" validate:"omitempty,max=500"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse salida de una venta registrada.
type SaleResponse struct {
	ID             string             `json:"id"`
	TransactionID  string             `json:"transaction_id"`
	CashierID      string             `json:"cashier_id,omitempty"`
	CustomerID     string             `json:"customer_id,omitempty"`
	PaymentMethod  string             `json:"payment_method"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

// SaleSummaryDTO venta resumida para listados, sin el detalle de líneas.
type SaleSummaryDTO struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	ItemsCount    int             `json:"items_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecentSalesResponse respuesta de GET /api/sales/recent.
type RecentSalesResponse struct {
	Items []SaleSummaryDTO `json:"items"`
	Total int              `json:"total"`
}
