package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypePurchase   = "purchase"
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
	MovementTypeReturn     = "return"
	MovementTypeDamaged    = "damaged"
	MovementTypeExpired    = "expired"
)

// ValidMovementType verifica si el tipo de movimiento es uno de los conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeReturn, MovementTypeDamaged, MovementTypeExpired:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de movimientos (append-only).
// PreviousQuantity/NewQuantity son el snapshot de la cantidad actual antes y
// después de aplicar el delta; InventoryLevel es una proyección reconstruible
// a partir de estas entradas.
type StockMovement struct {
	ID               string
	ProductID        string
	LocationID       string
	Quantity         int // delta con signo: positivo entrada, negativo salida
	PreviousQuantity int
	NewQuantity      int
	MovementType     string
	ReferenceID      string
	ReferenceType    string
	Notes            string
	CreatedAt        time.Time
	CreatedBy        string
}
