package sales

import (
	"context"
	"time"

	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// SalesTxRunner abstrae la transacción del checkout. La implementación
// (infraestructura) abre la transacción y entrega repositorios ligados a ella;
// el caso de uso compone decrementos de stock, venta, líneas y evento de
// outbox como una unidad atómica.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		saleRepo repository.SaleRepository,
		outboxRepo repository.OutboxRepository,
	) error) error
}

// InventoryLedger es lo que el checkout necesita del libro de inventario:
// aplicar el decremento por línea dentro de su propia transacción y publicar
// los efectos (caché de stock, alertas de umbral) después del commit.
type InventoryLedger interface {
	ApplyMovementInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		product *entity.Product,
		input ledger.MovementInput,
		now time.Time,
	) (*ledger.MovementResult, error)
	AfterCommit(ctx context.Context, results []*ledger.MovementResult)
}

// EventBroadcaster difunde eventos en vivo a los clientes del dashboard.
type EventBroadcaster interface {
	Broadcast(event string, payload any)
}
