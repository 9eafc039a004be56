package sales_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
	"github.com/shoptrack/pos-api/internal/infrastructure/cache"
	"github.com/shoptrack/pos-api/internal/infrastructure/memory"
)

var txnPattern = regexp.MustCompile(`^TXN-\d{8}-[0-9A-F]{8}$`)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: checkout completo sobre repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeBroadcaster captura los eventos difundidos al dashboard.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) Broadcast(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// stubAnalytics responde las consultas de resumen con filas fijas; las demás
// métodos del contrato no se usan en estos tests.
type stubAnalytics struct {
	repository.AnalyticsRepository
	summary repository.SalesSummaryRow
	top     []repository.TopProductRow
	hourly  []repository.HourlyPointRow
}

func (s *stubAnalytics) GetSalesSummary(ctx context.Context, start, end time.Time) (repository.SalesSummaryRow, error) {
	return s.summary, nil
}

func (s *stubAnalytics) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductRow, error) {
	if limit < len(s.top) {
		return s.top[:limit], nil
	}
	return s.top, nil
}

func (s *stubAnalytics) GetHourlyAnalytics(ctx context.Context, date time.Time) ([]repository.HourlyPointRow, error) {
	return s.hourly, nil
}

type salesFixture struct {
	uc          *sales.TransactionRecorderUseCase
	products    *memory.ProductRepo
	levels      *memory.InventoryLevelRepo
	movements   *memory.StockMovementRepo
	sales       *memory.SaleRepo
	outbox      *memory.OutboxRepo
	alerts      *memory.AlertRepo
	analytics   *stubAnalytics
	cache       *cache.MemoryStore
	broadcaster *fakeBroadcaster
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	products := memory.NewProductRepo()
	levels := memory.NewInventoryLevelRepo(products)
	movements := memory.NewStockMovementRepo()
	saleRepo := memory.NewSaleRepo()
	outbox := memory.NewOutboxRepo()
	alertRepo := memory.NewAlertRepo()
	store := cache.NewMemoryStore()
	broadcaster := &fakeBroadcaster{}

	analytics := &stubAnalytics{}
	txRunner := memory.NewTxRunner(products, levels, movements, saleRepo, outbox)
	alertUC := alerting.NewAlertEngineUseCase(alertRepo, nil, alerting.NewChannelRegistry(), nil)
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, products, levels, movements, nil, alertUC, store)
	uc := sales.NewTransactionRecorderUseCase(txRunner, ledgerUC, products, levels, saleRepo, analytics, store, broadcaster)

	return &salesFixture{
		uc:          uc,
		products:    products,
		levels:      levels,
		movements:   movements,
		sales:       saleRepo,
		outbox:      outbox,
		alerts:      alertRepo,
		analytics:   analytics,
		cache:       store,
		broadcaster: broadcaster,
	}
}

// seedProduct crea un producto rastreado con stock inicial vía el repositorio
// de niveles (sin pasar por el ledger, para no generar movimientos previos).
func (f *salesFixture) seedProduct(t *testing.T, sku string, price string, stock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		SKU:           sku,
		Name:          "Producto " + sku,
		Category:      "food",
		Price:         decimal.RequireFromString(price),
		MinStockLevel: 5,
		ReorderPoint:  8,
		MaxStockLevel: 100,
		IsTracked:     true,
		IsActive:      true,
	}
	require.NoError(t, f.products.Create(product))
	level := &entity.InventoryLevel{
		ProductID:       product.ID,
		LocationID:      ledger.DefaultLocationID,
		CurrentQuantity: stock,
	}
	level.RecomputeAvailable()
	require.NoError(t, f.levels.Upsert(level))
	return product
}

func (f *salesFixture) available(t *testing.T, productID string) int {
	t.Helper()
	level, err := f.levels.Get(productID, ledger.DefaultLocationID)
	require.NoError(t, err)
	return level.AvailableQuantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RecordSale
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: una venta válida decrementa stock, persiste la venta con sus líneas,
// calcula los totales, encola el evento y difunde al dashboard.
func TestRecordSale_FlujoCompleto(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	resp, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 6}},
		PaymentMethod: entity.PaymentMethodCash,
		TaxRate:       decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)

	// Identificador legible
	assert.Regexp(t, txnPattern, resp.TransactionID)

	// Totales: 6 × 3.99 = 23.94; impuesto 8% = 1.92 (redondeado a 2 decimales)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("23.94")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("1.92")), "impuesto %s", resp.TaxAmount)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("25.86")), "total %s", resp.TotalAmount)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, product.SKU, resp.Items[0].SKU, "la línea desnormaliza el SKU")

	// Stock decrementado con snapshot en el movimiento
	assert.Equal(t, 4, f.available(t, product.ID))
	movs, err := f.movements.List(context.Background(), product.ID, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].MovementType)
	assert.Equal(t, 10, movs[0].PreviousQuantity)
	assert.Equal(t, 4, movs[0].NewQuantity)
	assert.Equal(t, resp.ID, movs[0].ReferenceID, "el movimiento referencia la venta")

	// Evento en el outbox y difusión en vivo
	pending, err := f.outbox.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.TopicSaleCompleted, pending[0].Topic)
	assert.Equal(t, 1, f.broadcaster.count())
}

// Caso 2: sin stock suficiente la venta completa se revierte: ninguna línea
// queda aplicada aunque las primeras sí alcanzaran.
func TestRecordSale_InsuficienteRevierteTodo(t *testing.T) {
	f := newSalesFixture(t)
	ok := f.seedProduct(t, "AAA001", "2.00", 50)
	scarce := f.seedProduct(t, "ZZZ001", "4.00", 2)

	_, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: ok.ID, Quantity: 3},
			{ProductID: scarce.ID, Quantity: 5},
		},
		PaymentMethod: entity.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 50, f.available(t, ok.ID), "la línea que sí alcanzaba debe revertirse")
	assert.Equal(t, 2, f.available(t, scarce.ID))

	movs, err := f.movements.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe quedar ningún movimiento")

	persisted, err := f.sales.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, persisted, "no debe quedar ninguna venta")
}

// Caso 3: dos cajas compitiendo por las últimas unidades: una gana, la otra
// recibe ErrInsufficientStock, y el stock nunca queda negativo.
func TestRecordSale_CarreraPorUltimasUnidades(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 5)

	req := dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 4}},
		PaymentMethod: entity.PaymentMethodCash,
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.RecordSale(context.Background(), "cashier", req)
		}(i)
	}
	wg.Wait()

	var okCount, failCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
			failCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una venta debe confirmarse")
	assert.Equal(t, 1, failCount)
	assert.Equal(t, 1, f.available(t, product.ID))
}

// Caso 4: entradas inválidas.
func TestRecordSale_EntradasInvalidas(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	cases := []struct {
		name string
		req  dto.RecordSaleRequest
	}{
		{"sin items", dto.RecordSaleRequest{PaymentMethod: entity.PaymentMethodCash}},
		{"método de pago desconocido", dto.RecordSaleRequest{
			Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "bitcoin",
		}},
		{"cantidad cero", dto.RecordSaleRequest{
			Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 0}},
			PaymentMethod: entity.PaymentMethodCash,
		}},
		{"descuento negativo", dto.RecordSaleRequest{
			Items:          []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:  entity.PaymentMethodCash,
			DiscountAmount: decimal.RequireFromString("-1"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordSale(context.Background(), "cashier-1", tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// Caso 5: descuento mayor que el subtotal revierte la transacción completa,
// incluidos los decrementos de stock ya aplicados dentro de ella.
func TestRecordSale_DescuentoMayorQueSubtotal_Revierte(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	_, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:          []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod:  entity.PaymentMethodCash,
		DiscountAmount: decimal.RequireFromString("100.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.available(t, product.ID), "el decremento dentro de la tx debe revertirse")
}

// Caso 6: producto inactivo o sin seguimiento rechaza el ticket entero.
func TestRecordSale_ProductoNoVendible(t *testing.T) {
	f := newSalesFixture(t)

	inactive := f.seedProduct(t, "OLD001", "1.00", 10)
	inactive.IsActive = false
	require.NoError(t, f.products.Update(inactive))

	_, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: inactive.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	untracked := &entity.Product{SKU: "SVC001", Name: "Servicio", IsTracked: false, IsActive: true}
	require.NoError(t, f.products.Create(untracked))
	_, err = f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: untracked.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotTracked)
}

// Caso 7: tax_rate admite fracción (0.08) o porcentaje (8); mismo resultado.
func TestRecordSale_TaxRateFraccionOPorcentaje(t *testing.T) {
	f := newSalesFixture(t)
	p1 := f.seedProduct(t, "AAA001", "10.00", 50)

	fraction, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: p1.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentMethodCash,
		TaxRate:       decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)

	percent, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: p1.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentMethodCash,
		TaxRate:       decimal.RequireFromString("8"),
	})
	require.NoError(t, err)

	assert.True(t, fraction.TaxAmount.Equal(percent.TaxAmount),
		"0.08 y 8%% deben producir el mismo impuesto: %s vs %s", fraction.TaxAmount, percent.TaxAmount)
	assert.True(t, fraction.TaxAmount.Equal(decimal.RequireFromString("0.80")))
}

// Caso 8: una línea sin precio usa el precio de catálogo del producto.
func TestRecordSale_PrecioDeCatalogoPorDefecto(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	resp, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: entity.PaymentMethodMobile,
	})
	require.NoError(t, err)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("3.99")))
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("7.98")))
}

// Caso 9: la venta que cruza el umbral de reorden dispara la alerta después
// del commit.
func TestRecordSale_CruceDeUmbral_DisparaAlerta(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10) // reorder=8

	_, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 3}},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	active, err := f.alerts.ListActive(context.Background(), entity.AlertTypeLowStock, "", 0)
	require.NoError(t, err)
	require.Len(t, active, 1, "10 → 7 cruza el punto de reorden (8)")
	assert.Equal(t, product.ID, active[0].ProductID)
}

// dupSaleRepo simula la colisión del índice único de transaction_id: el primer
// Create devuelve ErrDuplicate y los siguientes delegan al repositorio real.
// Registra los TXN intentados para verificar la regeneración.
type dupSaleRepo struct {
	*memory.SaleRepo
	mu   sync.Mutex
	seen []string
}

func (r *dupSaleRepo) Create(sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, sale.TransactionID)
	if len(r.seen) == 1 {
		return domain.ErrDuplicate
	}
	return r.SaleRepo.Create(sale)
}

// dupTxRunner entrega el repositorio de ventas con colisión dentro de la
// transacción simulada.
type dupTxRunner struct {
	inner *memory.TxRunner
	dup   *dupSaleRepo
}

func (r *dupTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.InventoryLevelRepository,
	saleRepo repository.SaleRepository,
	outboxRepo repository.OutboxRepository,
) error) error {
	return r.inner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.InventoryLevelRepository,
		_ repository.SaleRepository,
		outboxRepo repository.OutboxRepository,
	) error {
		return fn(movRepo, levelRepo, r.dup, outboxRepo)
	})
}

// Caso 10: colisión del TXN legible contra el índice único: el primer intento
// falla con ErrDuplicate, se regenera el identificador y la venta se confirma
// sin duplicar el decremento de stock.
func TestRecordSale_ColisionDeTXN_Regenera(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	dup := &dupSaleRepo{SaleRepo: f.sales}
	runner := &dupTxRunner{
		inner: memory.NewTxRunner(f.products, f.levels, f.movements, f.sales, f.outbox),
		dup:   dup,
	}
	alertUC := alerting.NewAlertEngineUseCase(f.alerts, nil, alerting.NewChannelRegistry(), nil)
	ledgerUC := ledger.NewStockLedgerUseCase(runner.inner, f.products, f.levels, f.movements, nil, alertUC, f.cache)
	uc := sales.NewTransactionRecorderUseCase(runner, ledgerUC, f.products, f.levels, f.sales, f.analytics, f.cache, f.broadcaster)

	resp, err := uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.Len(t, dup.seen, 2, "debe haber dos intentos de inserción")
	assert.NotEqual(t, dup.seen[0], dup.seen[1], "el reintento debe regenerar el TXN")
	assert.Regexp(t, txnPattern, resp.TransactionID)
	assert.Equal(t, dup.seen[1], resp.TransactionID)

	// El rollback del primer intento no debe duplicar el decremento.
	assert.Equal(t, 8, f.available(t, product.ID))
	movs, err := f.movements.List(context.Background(), product.ID, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetTransaction / GetRecentSales
// ──────────────────────────────────────────────────────────────────────────────

func TestGetTransaction_CacheYRepositorio(t *testing.T) {
	f := newSalesFixture(t)
	product := f.seedProduct(t, "MILK001", "3.99", 10)

	resp, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Primer hit: servido desde la caché del checkout
	got, err := f.uc.GetTransaction(context.Background(), resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	require.Len(t, got.Items, 1)

	// Invalida la caché y fuerza el camino por repositorio
	require.NoError(t, f.cache.Delete(context.Background(), "transaction:"+resp.TransactionID))
	got, err = f.uc.GetTransaction(context.Background(), resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, resp.TransactionID, got.TransactionID)
	assert.Len(t, got.Items, 1)
}

func TestGetTransaction_NoEncontrada(t *testing.T) {
	f := newSalesFixture(t)
	_, err := f.uc.GetTransaction(context.Background(), "TXN-20250101-DEADBEEF")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetTransaction(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetRecentSales_ConteoDeLineas(t *testing.T) {
	f := newSalesFixture(t)
	p1 := f.seedProduct(t, "AAA001", "2.00", 50)
	p2 := f.seedProduct(t, "BBB001", "3.00", 50)

	_, err := f.uc.RecordSale(context.Background(), "cashier-1", dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	recent, err := f.uc.GetRecentSales(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, 2, recent.Items[0].ItemsCount, "la venta tiene dos líneas")
	assert.Equal(t, 1, recent.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetSalesSummary / GetHourlyAnalytics
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSalesSummary_RangoInvalido(t *testing.T) {
	f := newSalesFixture(t)
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.GetSalesSummary(context.Background(), start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSalesSummary_MapeaFilas(t *testing.T) {
	f := newSalesFixture(t)
	f.analytics.summary = repository.SalesSummaryRow{
		TotalSales:          42,
		TotalRevenue:        decimal.RequireFromString("1234.50"),
		TotalItems:          96,
		AvgTransactionValue: decimal.RequireFromString("29.39"),
	}
	f.analytics.top = []repository.TopProductRow{
		{ProductID: "p1", SKU: "MILK001", ProductName: "Leche", QuantitySold: 30, TotalRevenue: decimal.RequireFromString("119.70")},
		{ProductID: "p2", SKU: "BREAD001", ProductName: "Pan", QuantitySold: 18, TotalRevenue: decimal.RequireFromString("81.00")},
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	resp, err := f.uc.GetSalesSummary(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-01", resp.Period.StartDate)
	assert.Equal(t, "2025-06-30", resp.Period.EndDate)
	assert.Equal(t, 42, resp.TotalSales)
	assert.True(t, resp.TotalRevenue.Equal(decimal.RequireFromString("1234.50")))
	require.Len(t, resp.TopProducts, 2)
	assert.Equal(t, "MILK001", resp.TopProducts[0].SKU)
	assert.Equal(t, 30, resp.TopProducts[0].QuantitySold)
}

func TestGetHourlyAnalytics_MapeaSerie(t *testing.T) {
	f := newSalesFixture(t)
	f.analytics.hourly = []repository.HourlyPointRow{
		{Hour: 9, TransactionCount: 12, TotalRevenue: decimal.RequireFromString("180.00"), AvgTransactionValue: decimal.RequireFromString("15.00")},
		{Hour: 17, TransactionCount: 25, TotalRevenue: decimal.RequireFromString("500.00"), AvgTransactionValue: decimal.RequireFromString("20.00")},
	}

	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	resp, err := f.uc.GetHourlyAnalytics(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-15", resp.Date)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 9, resp.Items[0].Hour)
	assert.Equal(t, 25, resp.Items[1].TransactionCount)
	assert.True(t, resp.Items[1].AvgTransactionValue.Equal(decimal.RequireFromString("20.00")))
}
