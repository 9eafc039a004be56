package entity

import "time"

// InventoryLevel representa el stock actual de un producto en una ubicación.
// Fila lógica única por (ProductID, LocationID); propiedad exclusiva del ledger.
// Invariante tras cada mutación: Available == max(0, Current - Reserved).
type InventoryLevel struct {
	ProductID         string
	LocationID        string
	CurrentQuantity   int
	ReservedQuantity  int
	AvailableQuantity int
	UpdatedAt         time.Time
}

// RecomputeAvailable recalcula la cantidad disponible a partir de current y reserved.
func (l *InventoryLevel) RecomputeAvailable() {
	avail := l.CurrentQuantity - l.ReservedQuantity
	if avail < 0 {
		avail = 0
	}
	l.AvailableQuantity = avail
}
