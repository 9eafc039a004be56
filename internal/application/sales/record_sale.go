package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// transactionCacheTTL vigencia del ticket en caché, consultable por TXN.
const transactionCacheTTL = time.Hour

func transactionCacheKey(transactionID string) string {
	return "transaction:" + transactionID
}

// NewTransactionID genera el identificador legible TXN-YYYYMMDD-XXXXXXXX que
// ven cajeros y tickets (8 hex en mayúsculas tomados de un UUID).
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// TransactionRecorderUseCase registra ventas del punto de venta: valida el
// ticket, decrementa stock línea por línea en una sola transacción y publica
// los efectos posteriores (alertas de umbral, caché, dashboard, outbox).
type TransactionRecorderUseCase struct {
	txRunner    SalesTxRunner
	ledger      InventoryLedger
	productRepo repository.ProductRepository
	levelRepo   repository.InventoryLevelRepository
	saleRepo    repository.SaleRepository
	analytics   repository.AnalyticsRepository
	cache       ports.CacheStore
	broadcaster EventBroadcaster
}

// NewTransactionRecorderUseCase construye el caso de uso. cache y broadcaster
// pueden ser nil y entonces se omiten caché y difusión en vivo.
func NewTransactionRecorderUseCase(
	txRunner SalesTxRunner,
	invLedger InventoryLedger,
	productRepo repository.ProductRepository,
	levelRepo repository.InventoryLevelRepository,
	saleRepo repository.SaleRepository,
	analytics repository.AnalyticsRepository,
	cache ports.CacheStore,
	broadcaster EventBroadcaster,
) *TransactionRecorderUseCase {
	return &TransactionRecorderUseCase{
		txRunner:    txRunner,
		ledger:      invLedger,
		productRepo: productRepo,
		levelRepo:   levelRepo,
		saleRepo:    saleRepo,
		analytics:   analytics,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

// RecordSale registra una venta completa.
//
// Flujo: valida el request y resuelve los productos fuera de la transacción;
// verifica disponibilidad de forma consultiva; abre una transacción y por cada
// línea (en orden ascendente de ProductID, para un orden de bloqueo estable)
// aplica el decremento vía el libro de inventario, inserta la venta con sus
// líneas desnormalizadas y encola el evento sale.completed en el outbox.
// Tras el commit evalúa cruces de umbral, difunde la venta al dashboard y
// cachea el ticket. La verificación autoritativa de stock ocurre bajo el lock
// de fila: dos cajas vendiendo la última unidad terminan con una venta
// confirmada y un ErrInsufficientStock.
func (uc *TransactionRecorderUseCase) RecordSale(ctx context.Context, cashierID string, in dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.LessThan(decimal.Zero) || in.TaxRate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Resolución de productos fuera de la transacción: mantiene el lock de
	// fila lo más corto posible. Un producto desconocido o inactivo rechaza
	// el ticket completo; las ventas exigen productos con inventario seguido.
	productsByID := make(map[string]*entity.Product, len(in.Items))
	quantities := make(map[string]int, len(in.Items))
	for _, item := range in.Items {
		if _, ok := productsByID[item.ProductID]; !ok {
			product, err := uc.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("resolver producto %s: %w", item.ProductID, err)
			}
			if product == nil || !product.IsActive {
				return nil, domain.ErrNotFound
			}
			if !product.IsTracked {
				return nil, domain.ErrProductNotTracked
			}
			productsByID[item.ProductID] = product
		}
		quantities[item.ProductID] += item.Quantity
	}

	// Verificación consultiva de disponibilidad, sin lock. La decisión final
	// la toma el decremento bajo SELECT FOR UPDATE; esto solo corta temprano
	// los tickets que ya no alcanzan.
	for productID, qty := range quantities {
		level, err := uc.levelRepo.Get(productID, ledger.DefaultLocationID)
		if err != nil {
			return nil, fmt.Errorf("consultar stock de %s: %w", productID, err)
		}
		if level != nil && level.AvailableQuantity < qty {
			return nil, domain.ErrInsufficientStock
		}
	}

	now := time.Now()
	sale, items, results, err := uc.commitSale(ctx, cashierID, in, productsByID, NewTransactionID(now), now)
	if errors.Is(err, domain.ErrDuplicate) {
		// Colisión del TXN legible (único en BD): se regenera una vez.
		sale, items, results, err = uc.commitSale(ctx, cashierID, in, productsByID, NewTransactionID(now), now)
	}
	if err != nil {
		return nil, err
	}

	uc.ledger.AfterCommit(ctx, results)

	resp := toSaleResponse(sale, items)
	if uc.broadcaster != nil {
		uc.broadcaster.Broadcast(entity.TopicSaleCompleted, resp)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, transactionCacheKey(sale.TransactionID), resp, transactionCacheTTL); err != nil {
			log.Warn().Err(err).Str("transaction_id", sale.TransactionID).Msg("caché de ticket")
		}
	}

	log.Info().
		Str("transaction_id", sale.TransactionID).
		Str("cashier_id", cashierID).
		Int("items", len(items)).
		Str("total", sale.TotalAmount.String()).
		Msg("venta registrada")

	return resp, nil
}

// commitSale ejecuta la transacción del checkout con un TXN ya asignado.
func (uc *TransactionRecorderUseCase) commitSale(
	ctx context.Context,
	cashierID string,
	in dto.RecordSaleRequest,
	productsByID map[string]*entity.Product,
	transactionID string,
	now time.Time,
) (*entity.Sale, []*entity.SaleItem, []*ledger.MovementResult, error) {
	saleID := uuid.New().String()

	// Orden de bloqueo estable entre cajas concurrentes: los decrementos se
	// aplican siempre en orden ascendente de ProductID.
	sorted := make([]dto.SaleItemRequest, len(in.Items))
	copy(sorted, in.Items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var (
		sale    *entity.Sale
		items   []*entity.SaleItem
		results []*ledger.MovementResult
	)
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		saleRepo repository.SaleRepository,
		outboxRepo repository.OutboxRepository,
	) error {
		results = results[:0]
		for _, item := range sorted {
			product := productsByID[item.ProductID]
			res, err := uc.ledger.ApplyMovementInTx(ctx, movRepo, levelRepo, product, ledger.MovementInput{
				ProductID:     item.ProductID,
				Quantity:      -item.Quantity,
				MovementType:  entity.MovementTypeSale,
				ReferenceID:   saleID,
				ReferenceType: "sale",
				UserID:        cashierID,
			}, now)
			if err != nil {
				return err
			}
			results = append(results, res)
		}

		taxRateDecimal := func(rate decimal.Decimal) decimal.Decimal {
			if rate.GreaterThan(decimal.NewFromInt(1)) {
				return rate.Div(decimal.NewFromInt(100))
			}
			return rate
		}

		subtotal := decimal.Zero
		items = items[:0]
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			unitPrice := item.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = product.Price
			}
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      saleID,
				ProductID:   item.ProductID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				TotalPrice:  lineTotal,
			})
		}

		if in.DiscountAmount.GreaterThan(subtotal) {
			return domain.ErrInvalidInput
		}
		taxBase := subtotal.Sub(in.DiscountAmount)
		taxAmount := taxBase.Mul(taxRateDecimal(in.TaxRate)).Round(2)
		completedAt := now

		sale = &entity.Sale{
			ID:             saleID,
			TransactionID:  transactionID,
			CashierID:      cashierID,
			CustomerID:     in.CustomerID,
			PaymentMethod:  in.PaymentMethod,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			DiscountAmount: in.DiscountAmount,
			TotalAmount:    taxBase.Add(taxAmount),
			Status:         entity.SaleStatusCompleted,
			Notes:          in.Notes,
			CreatedAt:      now,
			CompletedAt:    &completedAt,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, it := range items {
			if err := saleRepo.CreateItem(it); err != nil {
				return err
			}
		}

		return enqueueSaleCompleted(outboxRepo, sale, items, now)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return sale, items, results, nil
}

// enqueueSaleCompleted encola el evento sale.completed en la misma transacción
// que la venta; el dispatcher lo publica al broker después.
func enqueueSaleCompleted(outboxRepo repository.OutboxRepository, sale *entity.Sale, items []*entity.SaleItem, now time.Time) error {
	type eventItem struct {
		ProductID string `json:"product_id"`
		SKU       string `json:"sku"`
		Quantity  int    `json:"quantity"`
	}
	payloadItems := make([]eventItem, 0, len(items))
	for _, it := range items {
		payloadItems = append(payloadItems, eventItem{ProductID: it.ProductID, SKU: it.SKU, Quantity: it.Quantity})
	}
	payload, err := json.Marshal(map[string]any{
		"sale_id":        sale.ID,
		"transaction_id": sale.TransactionID,
		"total_amount":   sale.TotalAmount,
		"payment_method": sale.PaymentMethod,
		"items":          payloadItems,
		"completed_at":   sale.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar evento de venta: %w", err)
	}
	return outboxRepo.Create(&entity.OutboxEvent{
		Topic:     entity.TopicSaleCompleted,
		Payload:   payload,
		Status:    entity.OutboxStatusPending,
		CreatedAt: now,
	})
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	itemDTOs := make([]dto.SaleItemResponse, 0, len(items))
	for _, it := range items {
		itemDTOs = append(itemDTOs, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return &dto.SaleResponse{
		ID:             sale.ID,
		TransactionID:  sale.TransactionID,
		CashierID:      sale.CashierID,
		CustomerID:     sale.CustomerID,
		PaymentMethod:  sale.PaymentMethod,
		Subtotal:       sale.Subtotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		Status:         sale.Status,
		Notes:          sale.Notes,
		Items:          itemDTOs,
		CreatedAt:      sale.CreatedAt,
		CompletedAt:    sale.CompletedAt,
	}
}
