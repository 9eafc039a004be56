package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Agrega en una sola llamada lo que la pantalla principal necesita al abrir;
// las fuentes se consultan en paralelo.
type DashboardSummaryDTO struct {
	// Métricas del día actual (00:00 hasta ahora)
	TodaySales          int             `json:"today_sales"`
	TodayRevenue        decimal.Decimal `json:"today_revenue"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`

	// Métricas del mes en curso (día 1 hasta hoy)
	MonthSales   int             `json:"month_sales"`
	MonthRevenue decimal.Decimal `json:"month_revenue"`

	// Top 5 productos por unidades vendidas del mes
	TopProducts []TopProductDTO `json:"top_products"`

	// Inventario agregado por clasificación de stock
	InventoryStatus DashboardInventoryDTO `json:"inventory_status"`

	// Alertas activas, más recientes primero (máx 10)
	ActiveAlerts []AlertResponse `json:"active_alerts"`

	// Horas pico previstas para las próximas 24 horas
	RushHourPredictions []PredictionResponse `json:"rush_hour_predictions"`

	// Últimas 10 ventas completadas
	RecentSales []SaleSummaryDTO `json:"recent_sales"`
}

// DashboardInventoryDTO conteos de productos por clasificación de stock.
type DashboardInventoryDTO struct {
	TotalProducts int `json:"total_products"`
	OutOfStock    int `json:"out_of_stock"`
	LowStock      int `json:"low_stock"`
	ReorderNeeded int `json:"reorder_needed"`
	Overstocked   int `json:"overstocked"`
	Normal        int `json:"normal"`
}
