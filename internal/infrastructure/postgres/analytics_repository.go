package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes de ventas y las
// features del pronosticador de demanda. Solo considera ventas completadas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetHourlyBuckets agrega las ventas completadas de los últimos `days` días en
// cubetas horarias. Solo aparecen horas con al menos una venta; las horas
// muertas no generan filas en cero.
//
// Los items se preagregan por venta antes del JOIN: un JOIN directo con
// sale_items multiplicaría total_amount por el número de líneas.
func (r *AnalyticsRepo) GetHourlyBuckets(ctx context.Context, days int) ([]repository.HourlyBucketRow, error) {
	const query = `
	SELECT
	    date_trunc('hour', s.created_at) AS bucket,
	    SUM(s.total_amount)              AS total_amount,
	    COUNT(*)                         AS tx_count,
	    COALESCE(SUM(si.items), 0)       AS items_count
	FROM sales s
	LEFT JOIN (
	    SELECT sale_id, SUM(quantity) AS items
	    FROM sale_items
	    GROUP BY sale_id
	) si ON si.sale_id = s.id
	WHERE s.status = 'completed'
	  AND s.created_at >= now() - make_interval(days => $1)
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetHourlyBuckets: %w", err)
	}
	defer rows.Close()

	var results []repository.HourlyBucketRow
	for rows.Next() {
		var row repository.HourlyBucketRow
		if err := rows.Scan(&row.Hour, &row.TotalAmount, &row.TransactionCount, &row.ItemsCount); err != nil {
			return nil, fmt.Errorf("analytics.GetHourlyBuckets scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSameHourContext promedia la actividad de la misma hora del día sobre las
// 4 semanas anteriores a `now`. Las horas sin ventas no aportan muestra
// (se omiten del promedio); sin ninguna muestra devuelve todo en cero.
func (r *AnalyticsRepo) GetSameHourContext(ctx context.Context, now time.Time, hourOfDay int) (repository.HourContext, error) {
	const query = `
	SELECT
	    COALESCE(AVG(h.amount), 0)::float8      AS avg_amount,
	    COALESCE(AVG(h.tx_count), 0)::float8    AS avg_transactions,
	    COALESCE(AVG(h.items_count), 0)::float8 AS avg_items,
	    COALESCE(AVG(h.avg_value), 0)::float8   AS avg_transaction_value,
	    COUNT(*)                                AS sample_count
	FROM (
	    SELECT date_trunc('hour', s.created_at) AS bucket,
	           SUM(s.total_amount)::float8      AS amount,
	           COUNT(*)                         AS tx_count,
	           COALESCE(SUM(si.items), 0)       AS items_count,
	           AVG(s.total_amount)::float8      AS avg_value
	    FROM sales s
	    LEFT JOIN (
	        SELECT sale_id, SUM(quantity) AS items
	        FROM sale_items
	        GROUP BY sale_id
	    ) si ON si.sale_id = s.id
	    WHERE s.status = 'completed'
	      AND s.created_at >= $1::timestamptz - interval '28 days'
	      AND s.created_at <  $1::timestamptz
	      AND EXTRACT(hour FROM s.created_at) = $2
	    GROUP BY 1
	) h`

	var c repository.HourContext
	err := r.pool.QueryRow(ctx, query, now, hourOfDay).Scan(
		&c.AvgAmount, &c.AvgTransactions, &c.AvgItems, &c.AvgTransactionValue, &c.SampleCount,
	)
	if err != nil {
		return repository.HourContext{}, fmt.Errorf("analytics.GetSameHourContext: %w", err)
	}
	return c, nil
}

// GetTransactionCountForHour cuenta las ventas completadas dentro de la hora
// [hourStart, hourStart+1h). Lo usa la verificación de predicciones.
func (r *AnalyticsRepo) GetTransactionCountForHour(ctx context.Context, hourStart time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM sales
	WHERE status = 'completed'
	  AND created_at >= $1
	  AND created_at <  $1 + interval '1 hour'`

	var count int
	if err := r.pool.QueryRow(ctx, query, hourStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics.GetTransactionCountForHour: %w", err)
	}
	return count, nil
}

// GetSalesSummary devuelve totales del período: número de ventas, ingresos,
// unidades vendidas y ticket promedio. Usa COALESCE para devolver cero en
// períodos sin ventas.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, start, end time.Time) (repository.SalesSummaryRow, error) {
	const query = `
	SELECT
	    COUNT(*)                           AS total_sales,
	    COALESCE(SUM(total_amount), 0)     AS total_revenue,
	    COALESCE((
	        SELECT SUM(i.quantity)
	        FROM sale_items i
	        JOIN sales s2 ON s2.id = i.sale_id
	        WHERE s2.status = 'completed'
	          AND s2.created_at BETWEEN $1 AND $2
	    ), 0)                              AS total_items,
	    COALESCE(AVG(total_amount), 0)     AS avg_transaction_value
	FROM sales
	WHERE status = 'completed'
	  AND created_at BETWEEN $1 AND $2`

	var row repository.SalesSummaryRow
	err := r.pool.QueryRow(ctx, query, start, end).Scan(
		&row.TotalSales, &row.TotalRevenue, &row.TotalItems, &row.AvgTransactionValue,
	)
	if err != nil {
		return repository.SalesSummaryRow{}, fmt.Errorf("analytics.GetSalesSummary: %w", err)
	}
	return row, nil
}

// GetTopProducts devuelve los `limit` productos con más unidades vendidas en
// el período. El nombre y SKU salen de las líneas desnormalizadas, no del
// catálogo: el reporte refleja lo que decía el ticket.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductRow, error) {
	const query = `
	SELECT
	    i.product_id,
	    MAX(i.sku)           AS sku,
	    MAX(i.product_name)  AS product_name,
	    SUM(i.quantity)      AS quantity_sold,
	    SUM(i.total_price)   AS total_revenue
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.status = 'completed'
	  AND s.created_at BETWEEN $1 AND $2
	GROUP BY i.product_id
	ORDER BY quantity_sold DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.QuantitySold, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	if results == nil {
		results = []repository.TopProductRow{}
	}
	return results, nil
}

// GetHourlyAnalytics devuelve la serie horaria de un día (solo horas con
// ventas). date marca el día; la zona horaria es la del proceso.
func (r *AnalyticsRepo) GetHourlyAnalytics(ctx context.Context, date time.Time) ([]repository.HourlyPointRow, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	const query = `
	SELECT
	    EXTRACT(hour FROM created_at)::int AS hour,
	    COUNT(*)                           AS transaction_count,
	    COALESCE(SUM(total_amount), 0)     AS total_revenue,
	    COALESCE(AVG(total_amount), 0)     AS avg_transaction_value
	FROM sales
	WHERE status = 'completed'
	  AND created_at >= $1
	  AND created_at <  $2
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetHourlyAnalytics: %w", err)
	}
	defer rows.Close()

	var results []repository.HourlyPointRow
	for rows.Next() {
		var row repository.HourlyPointRow
		if err := rows.Scan(&row.Hour, &row.TransactionCount, &row.TotalRevenue, &row.AvgTransactionValue); err != nil {
			return nil, fmt.Errorf("analytics.GetHourlyAnalytics scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetHourlyAnalytics rows: %w", err)
	}
	if results == nil {
		results = []repository.HourlyPointRow{}
	}
	return results, nil
}

// GetAvgDailySalesQuantity devuelve unidades vendidas por día (promedio sobre
// los últimos `days` días) para cada producto del filtro. Productos sin ventas
// en el período no aparecen en el mapa.
func (r *AnalyticsRepo) GetAvgDailySalesQuantity(ctx context.Context, productIDs []string, days int) (map[string]float64, error) {
	const query = `
	SELECT
	    i.product_id,
	    SUM(i.quantity)::float8 / $2 AS avg_daily
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.status = 'completed'
	  AND s.created_at >= now() - make_interval(days => $2)
	  AND i.product_id = ANY($1)
	GROUP BY i.product_id`

	rows, err := r.pool.Query(ctx, query, productIDs, days)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetAvgDailySalesQuantity: %w", err)
	}
	defer rows.Close()

	result := make(map[string]float64, len(productIDs))
	for rows.Next() {
		var productID string
		var avg float64
		if err := rows.Scan(&productID, &avg); err != nil {
			return nil, fmt.Errorf("analytics.GetAvgDailySalesQuantity scan: %w", err)
		}
		result[productID] = avg
	}
	return result, rows.Err()
}
