package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

type levelKey struct {
	productID  string
	locationID string
}

// InventoryLevelRepo guarda niveles por producto+ubicación. Necesita el
// catálogo de productos para componer las filas de estado, igual que el join
// del adaptador de postgres.
type InventoryLevelRepo struct {
	mu       sync.RWMutex
	levels   map[levelKey]entity.InventoryLevel
	products *ProductRepo
}

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

func NewInventoryLevelRepo(products *ProductRepo) *InventoryLevelRepo {
	return &InventoryLevelRepo{
		levels:   make(map[levelKey]entity.InventoryLevel),
		products: products,
	}
}

func (r *InventoryLevelRepo) Get(productID, locationID string) (*entity.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if level, ok := r.levels[levelKey{productID, locationID}]; ok {
		return &level, nil
	}
	return &entity.InventoryLevel{ProductID: productID, LocationID: locationID}, nil
}

// GetForUpdate en memoria no bloquea filas; la exclusión la da el TxRunner,
// que serializa las transacciones con un mutex global.
func (r *InventoryLevelRepo) GetForUpdate(productID, locationID string) (*entity.InventoryLevel, error) {
	return r.Get(productID, locationID)
}

func (r *InventoryLevelRepo) Upsert(level *entity.InventoryLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *level
	stored.UpdatedAt = time.Now()
	r.levels[levelKey{level.ProductID, level.LocationID}] = stored
	return nil
}

func (r *InventoryLevelRepo) ListStatus(ctx context.Context, productID string) ([]repository.InventoryStatusRow, error) {
	rows, err := r.statusRows(productID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductName < rows[j].ProductName })
	return rows, nil
}

// ListBelowThreshold con threshold nil usa el ReorderPoint propio de cada
// producto, igual que el COALESCE del adaptador de postgres.
func (r *InventoryLevelRepo) ListBelowThreshold(ctx context.Context, threshold *int) ([]repository.InventoryStatusRow, error) {
	all, err := r.statusRows("")
	if err != nil {
		return nil, err
	}
	rows := make([]repository.InventoryStatusRow, 0, len(all))
	for _, row := range all {
		limit := row.ReorderPoint
		if threshold != nil {
			limit = *threshold
		}
		if row.AvailableQuantity <= limit {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].AvailableQuantity < rows[j].AvailableQuantity
	})
	return rows, nil
}

func (r *InventoryLevelRepo) statusRows(productID string) ([]repository.InventoryStatusRow, error) {
	products, err := r.products.List(true, 0, 0)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]repository.InventoryStatusRow, 0, len(products))
	for _, p := range products {
		if !p.IsTracked {
			continue
		}
		if productID != "" && p.ID != productID {
			continue
		}
		var level entity.InventoryLevel
		for key, l := range r.levels {
			if key.productID == p.ID {
				level = l
				break
			}
		}
		rows = append(rows, repository.InventoryStatusRow{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			Category:          p.Category,
			CurrentQuantity:   level.CurrentQuantity,
			ReservedQuantity:  level.ReservedQuantity,
			AvailableQuantity: level.AvailableQuantity,
			MinStockLevel:     p.MinStockLevel,
			ReorderPoint:      p.ReorderPoint,
			MaxStockLevel:     p.MaxStockLevel,
		})
	}
	return rows, nil
}

// StockMovementRepo guarda el libro de movimientos en orden de inserción.
type StockMovementRepo struct {
	mu        sync.RWMutex
	movements []entity.StockMovement
}

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

func NewStockMovementRepo() *StockMovementRepo {
	return &StockMovementRepo{}
}

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *StockMovementRepo) List(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.StockMovement, 0, limit)
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		out = append(out, &m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
