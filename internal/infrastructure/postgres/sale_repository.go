package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta. Devuelve ErrDuplicate si el
// transaction_id ya existe (el caso de uso regenera el TXN y reintenta).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, transaction_id, cashier_id, customer_id, payment_method, subtotal, tax_amount, discount_amount, total_amount, status, notes, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	cashierID := (*string)(nil)
	if sale.CashierID != "" {
		cashierID = &sale.CashierID
	}
	customerID := (*string)(nil)
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.TransactionID, cashierID, customerID, sale.PaymentMethod,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.TotalAmount,
		sale.Status, sale.Notes, sale.CreatedAt, sale.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta con nombre y SKU desnormalizados.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, sku, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.ProductName, item.SKU,
		item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByTransactionID busca una venta por su TXN legible.
func (r *SaleRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error) {
	query := `
		SELECT id, transaction_id, cashier_id, customer_id, payment_method, subtotal, tax_amount, discount_amount, total_amount, status, notes, created_at, completed_at
		FROM sales WHERE transaction_id = $1`
	var s entity.Sale
	var cashierID, customerID *string
	err := r.q.QueryRow(ctx, query, transactionID).Scan(
		&s.ID, &s.TransactionID, &cashierID, &customerID, &s.PaymentMethod,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
		&s.Status, &s.Notes, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by transaction id: %w", err)
	}
	if cashierID != nil {
		s.CashierID = *cashierID
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}

// GetItems devuelve las líneas de una venta.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, sku, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = $1 ORDER BY product_name`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListRecent devuelve las ventas completadas más recientes con su número de
// líneas, sin cargar el detalle.
func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]repository.SaleWithCount, error) {
	query := `
		SELECT s.id, s.transaction_id, s.cashier_id, s.customer_id, s.payment_method,
		       s.subtotal, s.tax_amount, s.discount_amount, s.total_amount,
		       s.status, s.notes, s.created_at, s.completed_at,
		       COUNT(i.id) AS items_count
		FROM sales s
		LEFT JOIN sale_items i ON i.sale_id = s.id
		WHERE s.status = 'completed'
		GROUP BY s.id
		ORDER BY s.created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	defer rows.Close()
	var list []repository.SaleWithCount
	for rows.Next() {
		var s entity.Sale
		var cashierID, customerID *string
		var itemsCount int
		if err := rows.Scan(&s.ID, &s.TransactionID, &cashierID, &customerID, &s.PaymentMethod,
			&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
			&s.Status, &s.Notes, &s.CreatedAt, &s.CompletedAt, &itemsCount); err != nil {
			return nil, fmt.Errorf("scan recent sale: %w", err)
		}
		if cashierID != nil {
			s.CashierID = *cashierID
		}
		if customerID != nil {
			s.CustomerID = *customerID
		}
		list = append(list, repository.SaleWithCount{Sale: &s, ItemsCount: itemsCount})
	}
	return list, rows.Err()
}
