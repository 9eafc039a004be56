package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo implementación de InventoryLevelRepository sobre PostgreSQL (usable con pool o tx).
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// Get obtiene el nivel de stock de un producto en una ubicación.
// Si no existe fila devuelve un nivel en cero (creación perezosa en el Upsert).
func (r *InventoryLevelRepo) Get(productID, locationID string) (*entity.InventoryLevel, error) {
	query := `
		SELECT product_id, location_id, current_quantity, reserved_quantity, available_quantity, updated_at
		FROM inventory_levels WHERE product_id = $1 AND location_id = $2`
	var l entity.InventoryLevel
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&l.ProductID, &l.LocationID, &l.CurrentQuantity, &l.ReservedQuantity, &l.AvailableQuantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryLevel{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get inventory level: %w", err)
	}
	return &l, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila para update (SELECT FOR UPDATE).
// Si la fila no existe devuelve un nivel en cero; el lock real llega con el
// primer Upsert de esa fila dentro de la misma transacción.
func (r *InventoryLevelRepo) GetForUpdate(productID, locationID string) (*entity.InventoryLevel, error) {
	query := `
		SELECT product_id, location_id, current_quantity, reserved_quantity, available_quantity, updated_at
		FROM inventory_levels WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var l entity.InventoryLevel
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&l.ProductID, &l.LocationID, &l.CurrentQuantity, &l.ReservedQuantity, &l.AvailableQuantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryLevel{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get inventory level for update: %w", err)
	}
	return &l, nil
}

// Upsert inserta o actualiza el nivel de stock (por producto y ubicación).
func (r *InventoryLevelRepo) Upsert(level *entity.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (product_id, location_id, current_quantity, reserved_quantity, available_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET current_quantity = EXCLUDED.current_quantity,
		              reserved_quantity = EXCLUDED.reserved_quantity,
		              available_quantity = EXCLUDED.available_quantity,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		level.ProductID, level.LocationID, level.CurrentQuantity, level.ReservedQuantity, level.AvailableQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory level: %w", err)
	}
	return nil
}

// ListStatus devuelve el estado de inventario de productos activos con
// seguimiento, con sus umbrales. productID vacío lista todos. Un producto sin
// fila en inventory_levels aparece con cantidades en cero.
func (r *InventoryLevelRepo) ListStatus(ctx context.Context, productID string) ([]repository.InventoryStatusRow, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.category,
		       COALESCE(l.current_quantity, 0), COALESCE(l.reserved_quantity, 0), COALESCE(l.available_quantity, 0),
		       p.min_stock_level, p.reorder_point, p.max_stock_level
		FROM products p
		LEFT JOIN inventory_levels l ON l.product_id = p.id
		WHERE p.is_tracked = true AND p.is_active = true`
	args := []any{}
	if productID != "" {
		query += ` AND p.id = $1`
		args = append(args, productID)
	}
	query += ` ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory status: %w", err)
	}
	defer rows.Close()
	return scanStatusRows(rows)
}

// ListBelowThreshold devuelve productos con disponible <= umbral. Con
// threshold nil se compara contra el reorder_point propio de cada producto.
func (r *InventoryLevelRepo) ListBelowThreshold(ctx context.Context, threshold *int) ([]repository.InventoryStatusRow, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.category,
		       COALESCE(l.current_quantity, 0), COALESCE(l.reserved_quantity, 0), COALESCE(l.available_quantity, 0),
		       p.min_stock_level, p.reorder_point, p.max_stock_level
		FROM products p
		LEFT JOIN inventory_levels l ON l.product_id = p.id
		WHERE p.is_tracked = true AND p.is_active = true`
	args := []any{}
	if threshold != nil {
		query += ` AND COALESCE(l.available_quantity, 0) <= $1`
		args = append(args, *threshold)
	} else {
		query += ` AND COALESCE(l.available_quantity, 0) <= p.reorder_point`
	}
	query += ` ORDER BY COALESCE(l.available_quantity, 0) ASC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()
	return scanStatusRows(rows)
}

func scanStatusRows(rows pgx.Rows) ([]repository.InventoryStatusRow, error) {
	var list []repository.InventoryStatusRow
	for rows.Next() {
		var row repository.InventoryStatusRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.Category,
			&row.CurrentQuantity, &row.ReservedQuantity, &row.AvailableQuantity,
			&row.MinStockLevel, &row.ReorderPoint, &row.MaxStockLevel); err != nil {
			return nil, fmt.Errorf("scan inventory status: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
