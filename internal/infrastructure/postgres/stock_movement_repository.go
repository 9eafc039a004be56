package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, location_id, quantity, previous_quantity, new_quantity, movement_type, reference_id, reference_type, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	referenceID := (*string)(nil)
	if movement.ReferenceID != "" {
		referenceID = &movement.ReferenceID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LocationID,
		movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		movement.MovementType, referenceID, movement.ReferenceType, movement.Notes,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List lista movimientos del más nuevo al más viejo. productID vacío lista
// todos los productos.
func (r *StockMovementRepo) List(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, location_id, quantity, previous_quantity, new_quantity, movement_type, reference_id, reference_type, notes, created_at, created_by
		FROM stock_movements`
	args := []any{}
	pos := 1
	if productID != "" {
		query += fmt.Sprintf(" WHERE product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var referenceID, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID,
			&m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
			&m.MovementType, &referenceID, &m.ReferenceType, &m.Notes,
			&m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if referenceID != nil {
			m.ReferenceID = *referenceID
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
