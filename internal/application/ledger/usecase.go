package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// DefaultLocationID ubicación implícita cuando el request no trae location_id.
const DefaultLocationID = "main"

// stockCacheTTL vigencia del snapshot de stock por producto en caché.
const stockCacheTTL = 5 * time.Minute

func stockCacheKey(productID string) string { return "stock:" + productID }

// StockLedgerUseCase aplica movimientos al libro de inventario de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada movimiento queda en stock_movements como registro inmutable; la fila de
// inventory_levels es la proyección derivada.
type StockLedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	levelRepo   repository.InventoryLevelRepository
	movRepo     repository.StockMovementRepository
	analytics   repository.AnalyticsRepository
	alerts      AlertEvaluator
	cache       ports.CacheStore
}

// NewStockLedgerUseCase construye el caso de uso. alerts y cache pueden ser
// nil (seeds, herramientas) y entonces se omiten transiciones y caché.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	levelRepo repository.InventoryLevelRepository,
	movRepo repository.StockMovementRepository,
	analytics repository.AnalyticsRepository,
	alerts AlertEvaluator,
	cache ports.CacheStore,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		levelRepo:   levelRepo,
		movRepo:     movRepo,
		analytics:   analytics,
		alerts:      alerts,
		cache:       cache,
	}
}

// MovementInput entrada para aplicar un movimiento de inventario.
// Quantity es el delta con signo: positivo entra, negativo sale.
type MovementInput struct {
	ProductID     string
	LocationID    string
	Quantity      int
	MovementType  string
	ReferenceID   string
	ReferenceType string
	Notes         string
	UserID        string
}

// MovementResult snapshot de la transición para que el caller detecte cruces
// de umbral sin volver a consultar la BD.
type MovementResult struct {
	Movement          *entity.StockMovement
	Product           *entity.Product
	PreviousCurrent   int
	NewCurrent        int
	PreviousAvailable int
	NewAvailable      int
	Alerts            []*entity.Alert
}

// ApplyMovement inicia una transacción, bloquea la fila en inventory_levels
// (SELECT FOR UPDATE), aplica el delta y hace Commit o Rollback. Tras el commit
// evalúa la transición de disponibilidad contra los umbrales del producto.
func (uc *StockLedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if !entity.ValidMovementType(input.MovementType) || input.Quantity == 0 || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.LocationID == "" {
		input.LocationID = DefaultLocationID
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsTracked {
		return nil, domain.ErrProductNotTracked
	}

	now := time.Now()

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		_ repository.ProductRepository,
	) error {
		res, err := applyLocked(movRepo, levelRepo, product, input, now)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, result)
	return result, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios proporcionados
// (misma transacción del caller). Lo usa el registro de ventas para componer los
// decrementos por línea dentro de su propia transacción; la evaluación de alertas
// queda a cargo del caller, después de su commit.
func (uc *StockLedgerUseCase) ApplyMovementInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	if input.LocationID == "" {
		input.LocationID = DefaultLocationID
	}
	return applyLocked(movRepo, levelRepo, product, input, now)
}

// applyLocked núcleo del movimiento bajo el lock de fila. Para ventas exige
// disponible suficiente (ErrInsufficientStock); el resto de salidas (daño,
// vencimiento, ajuste) no puede dejar el stock negativo: se ajusta a cero.
func applyLocked(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	level, err := levelRepo.GetForUpdate(input.ProductID, input.LocationID)
	if err != nil {
		return nil, err
	}

	prevCurrent := level.CurrentQuantity
	prevAvailable := level.AvailableQuantity

	if input.MovementType == entity.MovementTypeSale && input.Quantity < 0 {
		if prevAvailable < -input.Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}

	newCurrent := prevCurrent + input.Quantity
	if newCurrent < 0 {
		log.Warn().
			Str("product_id", input.ProductID).
			Str("location_id", input.LocationID).
			Int("current", prevCurrent).
			Int("delta", input.Quantity).
			Msg("el stock quedaría negativo, se ajusta a cero")
		newCurrent = 0
	}

	level.CurrentQuantity = newCurrent
	level.RecomputeAvailable()
	level.UpdatedAt = now
	if err := levelRepo.Upsert(level); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ProductID:        input.ProductID,
		LocationID:       input.LocationID,
		Quantity:         input.Quantity,
		PreviousQuantity: prevCurrent,
		NewQuantity:      newCurrent,
		MovementType:     input.MovementType,
		ReferenceID:      input.ReferenceID,
		ReferenceType:    input.ReferenceType,
		Notes:            input.Notes,
		CreatedAt:        now,
		CreatedBy:        input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	return &MovementResult{
		Movement:          mov,
		Product:           product,
		PreviousCurrent:   prevCurrent,
		NewCurrent:        newCurrent,
		PreviousAvailable: prevAvailable,
		NewAvailable:      level.AvailableQuantity,
	}, nil
}

// AfterCommit publica los efectos de movimientos ya confirmados: refresca la
// caché de stock por producto y evalúa los cruces de umbral. Lo invoca el
// registro de ventas después del commit de su propia transacción.
func (uc *StockLedgerUseCase) AfterCommit(ctx context.Context, results []*MovementResult) {
	for _, res := range results {
		uc.afterCommit(ctx, res)
	}
}

func (uc *StockLedgerUseCase) afterCommit(ctx context.Context, res *MovementResult) {
	uc.cacheStockSnapshot(ctx, res)
	uc.evaluateTransition(ctx, res.Product, res)
}

func (uc *StockLedgerUseCase) cacheStockSnapshot(ctx context.Context, res *MovementResult) {
	if uc.cache == nil {
		return
	}
	p := res.Product
	item := dto.InventoryStatusItem{
		ProductID:         p.ID,
		SKU:               p.SKU,
		ProductName:       p.Name,
		Category:          p.Category,
		CurrentQuantity:   res.NewCurrent,
		ReservedQuantity:  res.NewCurrent - res.NewAvailable,
		AvailableQuantity: res.NewAvailable,
		MinStockLevel:     p.MinStockLevel,
		ReorderPoint:      p.ReorderPoint,
		MaxStockLevel:     p.MaxStockLevel,
		StockStatus:       p.StockStatus(res.NewAvailable),
	}
	if err := uc.cache.Set(ctx, stockCacheKey(p.ID), item, stockCacheTTL); err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("caché de stock")
	}
}

func (uc *StockLedgerUseCase) evaluateTransition(ctx context.Context, product *entity.Product, res *MovementResult) {
	if uc.alerts == nil {
		return
	}
	alerts, err := uc.alerts.EvaluateStockTransition(ctx, product, res.PreviousAvailable, res.NewAvailable)
	if err != nil {
		// El movimiento ya está confirmado; un fallo aquí solo se registra.
		log.Error().Err(err).Str("product_id", product.ID).Msg("evaluación de alertas de stock")
		return
	}
	res.Alerts = alerts
}

// GetInventoryStatus devuelve el estado de stock con su clasificación.
// productID opcional filtra a un solo producto; en ese caso se intenta primero
// el snapshot en caché y se repuebla en cada miss.
func (uc *StockLedgerUseCase) GetInventoryStatus(ctx context.Context, productID string) ([]dto.InventoryStatusItem, error) {
	if productID != "" && uc.cache != nil {
		var cached dto.InventoryStatusItem
		ok, err := uc.cache.Get(ctx, stockCacheKey(productID), &cached)
		if err != nil {
			log.Warn().Err(err).Str("product_id", productID).Msg("lectura de caché de stock")
		}
		if ok {
			return []dto.InventoryStatusItem{cached}, nil
		}
	}

	rows, err := uc.levelRepo.ListStatus(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryStatusItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, statusItemFromRow(row))
	}

	if productID != "" && uc.cache != nil && len(items) == 1 {
		if err := uc.cache.Set(ctx, stockCacheKey(productID), items[0], stockCacheTTL); err != nil {
			log.Warn().Err(err).Str("product_id", productID).Msg("caché de stock")
		}
	}
	return items, nil
}

// GetLowStockProducts devuelve los productos en o por debajo del umbral.
// Sin threshold se compara contra el min_stock_level de cada producto.
// Incluye días de stock estimados según las ventas de los últimos 30 días.
func (uc *StockLedgerUseCase) GetLowStockProducts(ctx context.Context, threshold *int) ([]dto.InventoryStatusItem, error) {
	rows, err := uc.levelRepo.ListBelowThreshold(ctx, threshold)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryStatusItem, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, statusItemFromRow(row))
		ids = append(ids, row.ProductID)
	}

	if len(ids) > 0 {
		avgDaily, err := uc.analytics.GetAvgDailySalesQuantity(ctx, ids, 30)
		if err != nil {
			log.Warn().Err(err).Msg("promedio de ventas diarias para días de stock")
			return items, nil
		}
		for i := range items {
			avg, ok := avgDaily[items[i].ProductID]
			if !ok || avg <= 0 {
				continue
			}
			days := float64(items[i].AvailableQuantity) / avg
			items[i].DaysOfStock = &days
		}
	}
	return items, nil
}

// GetStockMovements devuelve el historial de movimientos, más recientes primero.
// productID opcional; limit por defecto 100, máximo 500.
func (uc *StockLedgerUseCase) GetStockMovements(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return uc.movRepo.List(ctx, productID, limit)
}

func statusItemFromRow(row repository.InventoryStatusRow) dto.InventoryStatusItem {
	p := entity.Product{
		MinStockLevel: row.MinStockLevel,
		ReorderPoint:  row.ReorderPoint,
		MaxStockLevel: row.MaxStockLevel,
	}
	return dto.InventoryStatusItem{
		ProductID:         row.ProductID,
		SKU:               row.SKU,
		ProductName:       row.ProductName,
		Category:          row.Category,
		CurrentQuantity:   row.CurrentQuantity,
		ReservedQuantity:  row.ReservedQuantity,
		AvailableQuantity: row.AvailableQuantity,
		MinStockLevel:     row.MinStockLevel,
		ReorderPoint:      row.ReorderPoint,
		MaxStockLevel:     row.MaxStockLevel,
		StockStatus:       p.StockStatus(row.AvailableQuantity),
	}
}
