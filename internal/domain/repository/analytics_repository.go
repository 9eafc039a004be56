package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HourlyBucketRow agregado de ventas completadas de una hora calendario.
// Lo produce la DB; el forecaster lo convierte en vector de features.
type HourlyBucketRow struct {
	Hour             time.Time // inicio de la hora (minuto/segundo en cero)
	TotalAmount      decimal.Decimal
	TransactionCount int
	ItemsCount       int
}

// HourContext promedio de métricas de ventas para una hora del día concreta,
// calculado sobre las 4 semanas previas (contexto "misma hora histórica").
type HourContext struct {
	AvgAmount           float64
	AvgTransactions     float64
	AvgItems            float64
	AvgTransactionValue float64
	SampleCount         int
}

// SalesSummaryRow totales agregados de un rango de fechas.
type SalesSummaryRow struct {
	TotalSales          int
	TotalRevenue        decimal.Decimal
	TotalItems          int
	AvgTransactionValue decimal.Decimal
}

// TopProductRow producto más vendido del período.
type TopProductRow struct {
	ProductID    string
	SKU          string
	ProductName  string
	QuantitySold int
	TotalRevenue decimal.Decimal
}

// HourlyPointRow punto de la serie horaria de un día (analítica de tendencia).
type HourlyPointRow struct {
	Hour                int
	TransactionCount    int
	TotalRevenue        decimal.Decimal
	AvgTransactionValue decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura sobre el historial de
// ventas completadas. Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetHourlyBuckets agrupa las ventas completadas de los últimos `days` días
	// en cubetas horarias, ordenadas ascendente. Corpus de entrenamiento.
	GetHourlyBuckets(ctx context.Context, days int) ([]HourlyBucketRow, error)

	// GetSameHourContext promedia las métricas de la hora `hourOfDay` sobre las
	// 4 semanas previas a `now` (28 horas candidatas; las sin ventas se omiten).
	GetSameHourContext(ctx context.Context, now time.Time, hourOfDay int) (HourContext, error)

	// GetTransactionCountForHour cuenta las ventas completadas dentro de la hora
	// que inicia en `hourStart`. Verificación de predicciones.
	GetTransactionCountForHour(ctx context.Context, hourStart time.Time) (int, error)

	// GetSalesSummary devuelve los totales del rango [start, end].
	GetSalesSummary(ctx context.Context, start, end time.Time) (SalesSummaryRow, error)

	// GetTopProducts devuelve los `limit` productos con más unidades vendidas.
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductRow, error)

	// GetHourlyAnalytics devuelve la serie por hora de un día calendario.
	GetHourlyAnalytics(ctx context.Context, date time.Time) ([]HourlyPointRow, error)

	// GetAvgDailySalesQuantity promedia unidades vendidas por día (últimos `days`
	// días) para cada producto indicado. Productos sin ventas no aparecen en el mapa.
	GetAvgDailySalesQuantity(ctx context.Context, productIDs []string, days int) (map[string]float64, error)
}
