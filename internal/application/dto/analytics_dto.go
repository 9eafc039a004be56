package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// SalesSummaryRequest parámetros para GET /api/sales/summary.
type SalesSummaryRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto hace 30 días
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// HourlyAnalyticsRequest parámetros para GET /api/sales/analytics/hourly.
type HourlyAnalyticsRequest struct {
	Date string `query:"date"` // YYYY-MM-DD; por defecto hoy
}

// ── Resumen de ventas ─────────────────────────────────────────────────────────

// TopProductDTO producto más vendido del período.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesSummaryResponse respuesta de GET /api/sales/summary.
type SalesSummaryResponse struct {
	Period              PeriodDTO       `json:"period"`
	TotalSales          int             `json:"total_sales"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalItems          int             `json:"total_items"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`
	TopProducts         []TopProductDTO `json:"top_products"`
}

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ── Serie horaria ─────────────────────────────────────────────────────────────

// HourlyPointDTO punto de la serie horaria de un día.
type HourlyPointDTO struct {
	Hour                int             `json:"hour"`
	TransactionCount    int             `json:"transaction_count"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`
}

// HourlyAnalyticsResponse respuesta de GET /api/sales/analytics/hourly.
type HourlyAnalyticsResponse struct {
	Date  string           `json:"date"`
	Items []HourlyPointDTO `json:"items"`
}
