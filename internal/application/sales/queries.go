package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain"
)

// topProductsLimit productos incluidos en el resumen de ventas.
const topProductsLimit = 10

// GetTransaction busca una venta por su TXN legible. Intenta primero la caché
// del ticket y repuebla en cada miss.
func (uc *TransactionRecorderUseCase) GetTransaction(ctx context.Context, transactionID string) (*dto.SaleResponse, error) {
	if transactionID == "" {
		return nil, domain.ErrInvalidInput
	}

	if uc.cache != nil {
		var cached dto.SaleResponse
		ok, err := uc.cache.Get(ctx, transactionCacheKey(transactionID), &cached)
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", transactionID).Msg("lectura de caché de ticket")
		}
		if ok {
			return &cached, nil
		}
	}

	sale, err := uc.saleRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("buscar venta %s: %w", transactionID, err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("cargar líneas de %s: %w", transactionID, err)
	}

	resp := toSaleResponse(sale, items)
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, transactionCacheKey(transactionID), resp, transactionCacheTTL); err != nil {
			log.Warn().Err(err).Str("transaction_id", transactionID).Msg("caché de ticket")
		}
	}
	return resp, nil
}

// GetRecentSales devuelve las ventas completadas más recientes.
// limit por defecto 50, máximo 100.
func (uc *TransactionRecorderUseCase) GetRecentSales(ctx context.Context, limit int) (*dto.RecentSalesResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := uc.saleRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleSummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.SaleSummaryDTO{
			ID:            row.Sale.ID,
			TransactionID: row.Sale.TransactionID,
			TotalAmount:   row.Sale.TotalAmount,
			PaymentMethod: row.Sale.PaymentMethod,
			ItemsCount:    row.ItemsCount,
			CreatedAt:     row.Sale.CreatedAt,
		})
	}
	return &dto.RecentSalesResponse{Items: items, Total: len(items)}, nil
}

// GetSalesSummary agrega ventas completadas del período: totales, ticket
// promedio y productos más vendidos. Sin fechas cubre los últimos 30 días.
func (uc *TransactionRecorderUseCase) GetSalesSummary(ctx context.Context, start, end time.Time) (*dto.SalesSummaryResponse, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	if start.After(end) {
		return nil, domain.ErrInvalidInput
	}

	row, err := uc.analytics.GetSalesSummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("resumen de ventas: %w", err)
	}
	top, err := uc.analytics.GetTopProducts(ctx, start, end, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top de productos: %w", err)
	}

	topDTOs := make([]dto.TopProductDTO, 0, len(top))
	for _, t := range top {
		topDTOs = append(topDTOs, dto.TopProductDTO{
			ProductID:    t.ProductID,
			SKU:          t.SKU,
			ProductName:  t.ProductName,
			QuantitySold: t.QuantitySold,
			TotalRevenue: t.TotalRevenue,
		})
	}
	return &dto.SalesSummaryResponse{
		Period: dto.PeriodDTO{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		TotalSales:          row.TotalSales,
		TotalRevenue:        row.TotalRevenue,
		TotalItems:          row.TotalItems,
		AvgTransactionValue: row.AvgTransactionValue,
		TopProducts:         topDTOs,
	}, nil
}

// GetHourlyAnalytics devuelve la serie horaria de un día (24 puntos de
// transacciones e ingresos). Sin fecha se usa el día de hoy.
func (uc *TransactionRecorderUseCase) GetHourlyAnalytics(ctx context.Context, date time.Time) (*dto.HourlyAnalyticsResponse, error) {
	if date.IsZero() {
		date = time.Now()
	}
	rows, err := uc.analytics.GetHourlyAnalytics(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("serie horaria: %w", err)
	}
	items := make([]dto.HourlyPointDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.HourlyPointDTO{
			Hour:                r.Hour,
			TransactionCount:    r.TransactionCount,
			TotalRevenue:        r.TotalRevenue,
			AvgTransactionValue: r.AvgTransactionValue,
		})
	}
	return &dto.HourlyAnalyticsResponse{
		Date:  date.Format("2006-01-02"),
		Items: items,
	}, nil
}
