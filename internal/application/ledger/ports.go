package ledger

import (
	"context"

	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// AlertEvaluator recibe la transición de stock tras el commit para decidir si
// corresponde crear alertas. La evaluación nunca afecta al movimiento ya confirmado.
type AlertEvaluator interface {
	EvaluateStockTransition(ctx context.Context, product *entity.Product, prevAvailable, newAvailable int) ([]*entity.Alert, error)
}
