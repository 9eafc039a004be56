// seed puebla la base con datos de demostración: catálogo de productos con
// stock inicial, ventas históricas de los últimos 30 días (corpus para el
// modelo de demanda) y algunas alertas de ejemplo.
//
// Uso: go run ./cmd/seed
// Idempotente sobre el catálogo: los SKU ya existentes se omiten.
package main

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/application/usecase"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/infrastructure/postgres"
	"github.com/shoptrack/pos-api/pkg/config"
	"github.com/shoptrack/pos-api/pkg/logger"
)

// sampleProduct producto de demostración con sus umbrales.
type sampleProduct struct {
	sku      string
	name     string
	category string
	cost     string
	price    string
	minStock int
	reorder  int
	maxStock int
}

var sampleProducts = []sampleProduct{
	{"MILK001", "Fresh Whole Milk", "food", "2.50", "3.99", 20, 30, 100},
	{"BREAD001", "Artisan Sourdough Bread", "food", "1.80", "4.50", 15, 25, 50},
	{"COFFEE001", "Premium Coffee Beans", "beverages", "8.00", "12.99", 10, 15, 40},
	{"SOAP001", "Natural Hand Soap", "personal_care", "3.50", "6.99", 25, 35, 80},
	{"CLEAN001", "All-Purpose Cleaner", "household", "4.20", "8.50", 12, 20, 60},
	{"SNACK001", "Organic Trail Mix", "food", "5.00", "9.99", 8, 12, 30},
	{"WATER001", "Spring Water", "beverages", "0.80", "1.99", 50, 75, 200},
	{"BATTERY001", "AA Batteries (Pack of 4)", "electronics", "2.50", "5.99", 30, 40, 100},
}

var taxRate = decimal.RequireFromString("0.08")

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones de esquema")
	}

	productRepo := postgres.NewProductRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	// Sin alertas ni caché: la siembra no debe disparar notificaciones
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, productRepo, levelRepo, movRepo, nil, nil, nil)
	alertUC := alerting.NewAlertEngineUseCase(alertRepo, nil, alerting.NewChannelRegistry(), nil)

	products := seedProducts(ctx, log, productUC, ledgerUC)
	if len(products) == 0 {
		log.Fatal().Msg("sin productos para sembrar ventas")
	}
	salesCount := seedSales(log, saleRepo, products)
	alertCount := seedAlerts(ctx, log, alertUC, products)

	log.Info().
		Int("products", len(products)).
		Int("sales", salesCount).
		Int("alerts", alertCount).
		Msg("datos de demostración listos")
}

// seedProducts crea el catálogo con stock inicial aleatorio entre los umbrales
// min y max de cada producto. Devuelve el catálogo completo (creado o existente).
func seedProducts(
	ctx context.Context,
	log *logger.Logger,
	productUC *usecase.ProductUseCase,
	ledgerUC *ledger.StockLedgerUseCase,
) []*dto.ProductResponse {
	var out []*dto.ProductResponse
	for _, sp := range sampleProducts {
		created, err := productUC.Create(dto.CreateProductRequest{
			SKU:           sp.sku,
			Name:          sp.name,
			Category:      sp.category,
			Cost:          decimal.RequireFromString(sp.cost),
			Price:         decimal.RequireFromString(sp.price),
			MinStockLevel: sp.minStock,
			ReorderPoint:  sp.reorder,
			MaxStockLevel: sp.maxStock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			existing, err := productUC.GetBySKU(sp.sku)
			if err != nil || existing == nil {
				log.Error().Err(err).Str("sku", sp.sku).Msg("recuperar producto existente")
				continue
			}
			log.Info().Str("sku", sp.sku).Msg("producto ya existe, se omite")
			out = append(out, existing)
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("sku", sp.sku).Msg("crear producto")
			continue
		}

		initial := sp.minStock + rand.Intn(sp.maxStock-sp.minStock+1)
		_, err = ledgerUC.ApplyMovement(ctx, ledger.MovementInput{
			ProductID:     created.ID,
			Quantity:      initial,
			MovementType:  entity.MovementTypePurchase,
			ReferenceType: "seed",
			Notes:         "Stock inicial de demostración",
		})
		if err != nil {
			log.Error().Err(err).Str("sku", sp.sku).Msg("stock inicial")
		}
		log.Info().Str("sku", sp.sku).Int("stock", initial).Msg("producto creado")
		out = append(out, created)
	}
	return out
}

// seedSales escribe ventas completadas repartidas en los últimos 30 días en
// horario comercial (8 a 20h), de 5 a 15 por día y de 1 a 4 líneas por venta.
// Inserta directo en el repositorio para poder fechar en el pasado; el stock
// actual no se toca, estas ventas son solo historial para el forecaster.
func seedSales(log *logger.Logger, saleRepo *postgres.SaleRepo, products []*dto.ProductResponse) int {
	paymentMethods := []string{entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodMobile}
	start := time.Now().UTC().AddDate(0, 0, -30)

	total := 0
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		dailySales := 5 + rand.Intn(11)

		for s := 0; s < dailySales; s++ {
			saleTime := time.Date(date.Year(), date.Month(), date.Day(),
				8+rand.Intn(13), rand.Intn(60), rand.Intn(60), 0, time.UTC)

			lines := 1 + rand.Intn(4)
			if lines > len(products) {
				lines = len(products)
			}
			picked := rand.Perm(len(products))[:lines]

			subtotal := decimal.Zero
			sale := &entity.Sale{
				TransactionID: sales.NewTransactionID(saleTime),
				PaymentMethod: paymentMethods[rand.Intn(len(paymentMethods))],
				Status:        entity.SaleStatusCompleted,
				Notes:         "Venta de demostración",
				CreatedAt:     saleTime,
				CompletedAt:   &saleTime,
			}

			type line struct {
				product  *dto.ProductResponse
				quantity int
			}
			lineItems := make([]line, 0, lines)
			for _, idx := range picked {
				p := products[idx]
				qty := 1 + rand.Intn(3)
				subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
				lineItems = append(lineItems, line{product: p, quantity: qty})
			}
			sale.Subtotal = subtotal
			sale.TaxAmount = subtotal.Mul(taxRate).Round(2)
			sale.DiscountAmount = decimal.Zero
			sale.TotalAmount = subtotal.Add(sale.TaxAmount)

			if err := saleRepo.Create(sale); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					continue
				}
				log.Error().Err(err).Msg("crear venta de demostración")
				continue
			}
			for _, li := range lineItems {
				item := &entity.SaleItem{
					SaleID:      sale.ID,
					ProductID:   li.product.ID,
					ProductName: li.product.Name,
					SKU:         li.product.SKU,
					Quantity:    li.quantity,
					UnitPrice:   li.product.Price,
					TotalPrice:  li.product.Price.Mul(decimal.NewFromInt(int64(li.quantity))),
				}
				if err := saleRepo.CreateItem(item); err != nil {
					log.Error().Err(err).Str("sale_id", sale.ID).Msg("crear línea de venta")
				}
			}
			total++
		}
	}
	log.Info().Int("sales", total).Msg("ventas históricas sembradas")
	return total
}

// seedAlerts crea alertas de ejemplo de distintos tipos y severidades.
func seedAlerts(
	ctx context.Context,
	log *logger.Logger,
	alertUC *alerting.AlertEngineUseCase,
	products []*dto.ProductResponse,
) int {
	samples := []struct {
		alertType string
		severity  string
		message   string
	}{
		{entity.AlertTypeLowStock, entity.SeverityMedium, "El stock disponible está por debajo del punto de reorden"},
		{entity.AlertTypeRushHour, entity.SeverityLow, "Se prevé hora pico para esta tarde"},
		{entity.AlertTypeSystemError, entity.SeverityHigh, "Error al sincronizar el inventario con la caja"},
	}

	count := 0
	for i, s := range samples {
		if i >= len(products) {
			break
		}
		p := products[i]
		_, err := alertUC.Create(ctx, alerting.CreateAlertInput{
			Type:      s.alertType,
			Severity:  s.severity,
			Title:     "Alerta de ejemplo: " + p.Name,
			Message:   s.message,
			ProductID: p.ID,
			Details: map[string]any{
				"product_sku": p.SKU,
				"threshold":   p.MinStockLevel,
			},
		})
		if err != nil {
			log.Error().Err(err).Str("type", s.alertType).Msg("crear alerta de ejemplo")
			continue
		}
		count++
	}
	log.Info().Int("alerts", count).Msg("alertas de ejemplo creadas")
	return count
}
