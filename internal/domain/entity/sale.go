package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
	PaymentMethodOther  = "other"
)

// ValidPaymentMethod verifica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodOther:
		return true
	}
	return false
}

// Estados de una venta. Única transición permitida: pending → completed.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
)

// Sale representa una transacción de venta. Inmutable una vez completada.
// TransactionID es el identificador legible TXN-YYYYMMDD-XXXXXXXX que ven
// cajeros y tickets; ID es el UUID interno.
type Sale struct {
	ID             string
	TransactionID  string
	CashierID      string
	CustomerID     string
	PaymentMethod  string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         string
	Notes          string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// SaleItem es una línea de venta. Nombre y SKU se desnormalizan al momento
// del commit para que el ticket sea estable aunque el catálogo cambie después.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
