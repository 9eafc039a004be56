package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner     = (*TxRunner)(nil)
	_ sales.SalesTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los
// casos de uso ven solo las interfaces de repositorio; las instancias que
// reciben aquí están atadas a la tx, así todo lo que hagan con ellas se
// confirma o revierte junto.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción del libro de inventario: movimientos, niveles y productos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	levelRepo := NewInventoryLevelRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, levelRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale transacción del checkout: además del inventario entrega los repos
// de ventas y del outbox, para que venta, líneas, decrementos y evento
// queden en la misma unidad atómica.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	levelRepo := NewInventoryLevelRepository(tx)
	saleRepo := NewSaleRepository(tx)
	outboxRepo := NewOutboxRepository(tx)

	if err := fn(movRepo, levelRepo, saleRepo, outboxRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
