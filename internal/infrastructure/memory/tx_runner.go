package memory

import (
	"context"
	"sync"

	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// TxRunner simula transacciones sobre los repositorios en memoria: serializa
// con un mutex global y, si la función falla, restaura el estado previo. Da a
// los tests la misma semántica todo-o-nada que la transacción de postgres.
type TxRunner struct {
	mu        sync.Mutex
	products  *ProductRepo
	levels    *InventoryLevelRepo
	movements *StockMovementRepo
	sales     *SaleRepo
	outbox    *OutboxRepo
}

var (
	_ ledger.TxRunner     = (*TxRunner)(nil)
	_ sales.SalesTxRunner = (*TxRunner)(nil)
)

func NewTxRunner(products *ProductRepo, levels *InventoryLevelRepo, movements *StockMovementRepo, saleRepo *SaleRepo, outbox *OutboxRepo) *TxRunner {
	return &TxRunner{
		products:  products,
		levels:    levels,
		movements: movements,
		sales:     saleRepo,
		outbox:    outbox,
	}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if err := fn(r.movements, r.levels, r.products); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if err := fn(r.movements, r.levels, r.sales, r.outbox); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type txSnapshot struct {
	levels    map[levelKey]entity.InventoryLevel
	movements []entity.StockMovement
	sales     map[string]entity.Sale
	items     map[string][]entity.SaleItem
	events    map[string]entity.OutboxEvent
}

func (r *TxRunner) snapshot() txSnapshot {
	snap := txSnapshot{
		levels: make(map[levelKey]entity.InventoryLevel, len(r.levels.levels)),
		sales:  make(map[string]entity.Sale),
		items:  make(map[string][]entity.SaleItem),
		events: make(map[string]entity.OutboxEvent),
	}
	r.levels.mu.RLock()
	for k, v := range r.levels.levels {
		snap.levels[k] = v
	}
	r.levels.mu.RUnlock()

	r.movements.mu.RLock()
	snap.movements = append(snap.movements, r.movements.movements...)
	r.movements.mu.RUnlock()

	r.sales.mu.RLock()
	for k, v := range r.sales.sales {
		snap.sales[k] = v
	}
	for k, v := range r.sales.items {
		snap.items[k] = append([]entity.SaleItem(nil), v...)
	}
	r.sales.mu.RUnlock()

	r.outbox.mu.RLock()
	for k, v := range r.outbox.events {
		snap.events[k] = v
	}
	r.outbox.mu.RUnlock()

	return snap
}

func (r *TxRunner) restore(snap txSnapshot) {
	r.levels.mu.Lock()
	r.levels.levels = snap.levels
	r.levels.mu.Unlock()

	r.movements.mu.Lock()
	r.movements.movements = snap.movements
	r.movements.mu.Unlock()

	r.sales.mu.Lock()
	r.sales.sales = snap.sales
	r.sales.items = snap.items
	r.sales.mu.Unlock()

	r.outbox.mu.Lock()
	r.outbox.events = snap.events
	r.outbox.mu.Unlock()
}
