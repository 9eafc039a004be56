// Package pdf implementa la generación del reporte diario de ventas en PDF,
// pensado para imprimirse al cierre de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  REPORTE DIARIO + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ventas | Ingresos | Unidades | Ticket promedio    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Productos más vendidos (SKU | Producto | Uds | $)   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Serie horaria (Hora | Transacciones | Ingresos)     │
//	│  FOOTER: leyenda de generación                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 84, Blue: 61}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SalesReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type SalesReportGenerator struct {
	storeName string
}

var _ ports.ReportGenerator = (*SalesReportGenerator)(nil)

// NewSalesReportGenerator construye el generador con el nombre de la tienda
// que encabeza cada reporte.
func NewSalesReportGenerator(storeName string) *SalesReportGenerator {
	if storeName == "" {
		storeName = "Punto de Venta"
	}
	return &SalesReportGenerator{storeName: storeName}
}

// GenerateDailySalesReport genera el PDF del día y devuelve sus bytes.
func (g *SalesReportGenerator) GenerateDailySalesReport(
	_ context.Context,
	date time.Time,
	summary *dto.SalesSummaryResponse,
	hourly *dto.HourlyAnalyticsResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte diario de ventas", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, date))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Productos más vendidos
	m.AddRows(sectionTitleRow("PRODUCTOS MÁS VENDIDOS"))
	m.AddRows(topProductsHeaderRow())
	for _, r := range topProductsRows(summary.TopProducts) {
		m.AddRows(r)
	}

	// Serie horaria
	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitleRow("VENTAS POR HORA"))
	m.AddRows(hourlyHeaderRow())
	for _, r := range hourlyRows(hourly.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y título + fecha (der).
func headerRow(storeName string, date time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cierre de caja", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DIARIO DE VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(date.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: los cuatro totales del día en una banda.
func summaryRow(summary *dto.SalesSummaryResponse) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center,
				Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		metric("VENTAS", fmt.Sprintf("%d", summary.TotalSales)),
		metric("INGRESOS", "$"+money(summary.TotalRevenue)),
		metric("UNIDADES", fmt.Sprintf("%d", summary.TotalItems)),
		metric("TICKET PROMEDIO", "$"+money(summary.AvgTransactionValue)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func topProductsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("SKU", 2, align.Left),
		h("Producto", 6, align.Left),
		h("Unidades", 2, align.Right),
		h("Ingresos", 2, align.Right),
	)
}

// topProductsRows: una fila por producto; sin ventas, una fila informativa.
func topProductsRows(top []dto.TopProductDTO) []core.Row {
	if len(top) == 0 {
		return []core.Row{emptyRow("Sin ventas registradas en el período")}
	}
	result := make([]core.Row, 0, len(top))
	for _, p := range top {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(p.SKU, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(6).Add(text.New(p.ProductName, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", p.QuantitySold), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New("$"+money(p.TotalRevenue), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func hourlyHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Hora", 2, align.Left),
		h("Transacciones", 4, align.Right),
		h("Ingresos", 3, align.Right),
		h("Ticket promedio", 3, align.Right),
	)
}

// hourlyRows: una fila por hora con actividad.
func hourlyRows(items []dto.HourlyPointDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, p := range items {
		if p.TransactionCount == 0 {
			continue
		}
		result = append(result, row.New(5).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%02d:00", p.Hour), props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(4).Add(text.New(fmt.Sprintf("%d", p.TransactionCount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(3).Add(text.New("$"+money(p.TotalRevenue), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(3).Add(text.New("$"+money(p.AvgTransactionValue), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	if len(result) == 0 {
		return []core.Row{emptyRow("Sin movimientos en el día")}
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Reporte generado automáticamente por el punto de venta. "+
				"Los montos incluyen solo ventas completadas.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 1,
		}),
	))
}

// money formatea un monto con dos decimales.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
