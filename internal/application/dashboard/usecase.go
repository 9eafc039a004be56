// Package dashboard contiene el caso de uso que agrega, en una sola llamada,
// todo lo que la pantalla principal del POS necesita al abrir.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

const (
	dashboardTopProducts = 5  // productos en el widget de más vendidos
	dashboardAlerts      = 10 // alertas activas mostradas
	dashboardRecentSales = 10 // últimas ventas mostradas
	dashboardRushHours   = 24 // horizonte de horas pico mostrado
)

// AlertFeed es lo que el dashboard necesita del motor de alertas.
type AlertFeed interface {
	GetActive(ctx context.Context, alertType, severity string, limit int) ([]dto.AlertResponse, error)
}

// PredictionFeed es lo que el dashboard necesita del pronosticador.
type PredictionFeed interface {
	GetStoredPredictions(ctx context.Context, hoursAhead int) ([]dto.PredictionResponse, error)
}

// DashboardUseCase genera el resumen operativo del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository para las métricas de ventas, más los
// feeds de alertas y predicciones; todo read-only y en paralelo.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	levelRepo     repository.InventoryLevelRepository
	saleRepo      repository.SaleRepository
	alerts        AlertFeed
	predictions   PredictionFeed
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	levelRepo repository.InventoryLevelRepository,
	saleRepo repository.SaleRepository,
	alerts AlertFeed,
	predictions PredictionFeed,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		levelRepo:     levelRepo,
		saleRepo:      saleRepo,
		alerts:        alerts,
		predictions:   predictions,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Siete consultas en paralelo:
//  1. GetSalesSummary(hoy)        → ventas e ingresos del día
//  2. GetSalesSummary(mes)        → ventas e ingresos del mes
//  3. GetTopProducts(mes, top 5)  → más vendidos
//  4. ListStatus()                → conteos de inventario por clasificación
//  5. GetActive(10)               → alertas activas
//  6. GetStoredPredictions(24h)   → horas pico previstas
//  7. ListRecent(10)              → últimas ventas
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type summaryResult struct {
		row repository.SalesSummaryRow
		err error
	}
	type topResult struct {
		rows []repository.TopProductRow
		err  error
	}
	type statusResult struct {
		rows []repository.InventoryStatusRow
		err  error
	}
	type alertsResult struct {
		items []dto.AlertResponse
		err   error
	}
	type predictionsResult struct {
		items []dto.PredictionResponse
		err   error
	}
	type recentResult struct {
		rows []repository.SaleWithCount
		err  error
	}

	todayCh := make(chan summaryResult, 1)
	monthCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	statusCh := make(chan statusResult, 1)
	alertsCh := make(chan alertsResult, 1)
	predictionsCh := make(chan predictionsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		row, err := uc.analyticsRepo.GetSalesSummary(ctx, todayStart, todayEnd)
		todayCh <- summaryResult{row, err}
	}()
	go func() {
		row, err := uc.analyticsRepo.GetSalesSummary(ctx, monthStart, monthEnd)
		monthCh <- summaryResult{row, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.levelRepo.ListStatus(ctx, "")
		statusCh <- statusResult{rows, err}
	}()
	go func() {
		items, err := uc.alerts.GetActive(ctx, "", "", dashboardAlerts)
		alertsCh <- alertsResult{items, err}
	}()
	go func() {
		items, err := uc.predictions.GetStoredPredictions(ctx, dashboardRushHours)
		predictionsCh <- predictionsResult{items, err}
	}()
	go func() {
		rows, err := uc.saleRepo.ListRecent(ctx, dashboardRecentSales)
		recentCh <- recentResult{rows, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	status := <-statusCh
	alerts := <-alertsCh
	predictions := <-predictionsCh
	recent := <-recentCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top de productos: %w", top.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: estado de inventario: %w", status.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas activas: %w", alerts.err)
	}
	if predictions.err != nil {
		return nil, fmt.Errorf("dashboard: horas pico: %w", predictions.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", recent.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	topDTOs := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, t := range top.rows {
		topDTOs = append(topDTOs, dto.TopProductDTO{
			ProductID:    t.ProductID,
			SKU:          t.SKU,
			ProductName:  t.ProductName,
			QuantitySold: t.QuantitySold,
			TotalRevenue: t.TotalRevenue,
		})
	}

	recentDTOs := make([]dto.SaleSummaryDTO, 0, len(recent.rows))
	for _, r := range recent.rows {
		recentDTOs = append(recentDTOs, dto.SaleSummaryDTO{
			ID:            r.Sale.ID,
			TransactionID: r.Sale.TransactionID,
			TotalAmount:   r.Sale.TotalAmount,
			PaymentMethod: r.Sale.PaymentMethod,
			ItemsCount:    r.ItemsCount,
			CreatedAt:     r.Sale.CreatedAt,
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:          today.row.TotalSales,
		TodayRevenue:        today.row.TotalRevenue.Round(2),
		AvgTransactionValue: today.row.AvgTransactionValue.Round(2),
		MonthSales:          month.row.TotalSales,
		MonthRevenue:        month.row.TotalRevenue.Round(2),
		TopProducts:         topDTOs,
		InventoryStatus:     classifyInventory(status.rows),
		ActiveAlerts:        alerts.items,
		RushHourPredictions: predictions.items,
		RecentSales:         recentDTOs,
	}, nil
}

// classifyInventory cuenta productos por clasificación de stock.
func classifyInventory(rows []repository.InventoryStatusRow) dto.DashboardInventoryDTO {
	out := dto.DashboardInventoryDTO{TotalProducts: len(rows)}
	for _, row := range rows {
		p := entity.Product{
			MinStockLevel: row.MinStockLevel,
			ReorderPoint:  row.ReorderPoint,
			MaxStockLevel: row.MaxStockLevel,
		}
		switch p.StockStatus(row.AvailableQuantity) {
		case entity.StockStatusOutOfStock:
			out.OutOfStock++
		case entity.StockStatusLowStock:
			out.LowStock++
		case entity.StockStatusReorderNeeded:
			out.ReorderNeeded++
		case entity.StockStatusOverstocked:
			out.Overstocked++
		default:
			out.Normal++
		}
	}
	return out
}
