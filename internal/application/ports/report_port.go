package ports

import (
	"context"
	"time"

	"github.com/shoptrack/pos-api/internal/application/dto"
)

// ReportGenerator define el puerto de salida para reportes imprimibles.
// Cualquier adaptador (Maroto, mock) debe implementar esta interfaz. Siguiendo
// el principio de inversión de dependencias (DIP), la aplicación solo conoce
// este contrato, no la librería de PDF concreta.
type ReportGenerator interface {
	// GenerateDailySalesReport arma el PDF del reporte diario de ventas a
	// partir del resumen del día y su serie horaria.
	GenerateDailySalesReport(
		ctx context.Context,
		date time.Time,
		summary *dto.SalesSummaryResponse,
		hourly *dto.HourlyAnalyticsResponse,
	) ([]byte, error)
}
