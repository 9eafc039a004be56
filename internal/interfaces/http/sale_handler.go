package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/pkg/validator"
)

const dateLayout = "2006-01-02"

// SaleHandler maneja el checkout y las consultas de ventas.
type SaleHandler struct {
	uc      *sales.TransactionRecorderUseCase
	reports ports.ReportGenerator
}

// NewSaleHandler construye el handler. reports puede ser nil, en cuyo caso el
// endpoint del reporte diario responde 503.
func NewSaleHandler(uc *sales.TransactionRecorderUseCase, reports ports.ReportGenerator) *SaleHandler {
	return &SaleHandler{uc: uc, reports: reports}
}

// Checkout godoc
// @Summary      Registrar venta
// @Description  Registra una venta multi-línea en una sola transacción:
// @Description  decrementa stock con bloqueo de fila por producto, persiste la
// @Description  venta y encola el evento sale.completed en el outbox. Si algún
// @Description  producto no tiene stock suficiente no se aplica nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "Líneas, método de pago, descuento y tasa de impuesto"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msgs := validator.ValidateStruct(in); msgs != nil {
		return validationError(c, msgs)
	}
	out, err := h.uc.RecordSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetTransaction godoc
// @Summary      Consultar venta por transaction_id
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        transaction_id  path  string  true  "ID legible de la transacción (TXN-...)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/transactions/{transaction_id} [get]
func (h *SaleHandler) GetTransaction(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "transaction_id es requerido"})
	}
	out, err := h.uc.GetTransaction(c.Context(), transactionID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetRecent godoc
// @Summary      Ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)  maximum(100)
// @Success      200  {object}  dto.RecentSalesResponse
// @Router       /api/sales/recent [get]
func (h *SaleHandler) GetRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	out, err := h.uc.GetRecentSales(c.Context(), limit)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetSummary godoc
// @Summary      Resumen de ventas del período
// @Description  Totales, ticket promedio y top de productos entre start_date y
// @Description  end_date (inclusive). Por defecto los últimos 30 días.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary [get]
func (h *SaleHandler) GetSummary(c *fiber.Ctx) error {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date debe ser YYYY-MM-DD"})
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date debe ser YYYY-MM-DD"})
		}
		// Fin de día para que el rango incluya el end_date completo
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date es anterior a start_date"})
	}

	out, err := h.uc.GetSalesSummary(c.Context(), start, end)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// DailyReport godoc
// @Summary      Reporte diario de ventas en PDF
// @Description  Genera el PDF de cierre de caja del día: totales, productos más
// @Description  vendidos y serie horaria.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/report/daily [get]
func (h *SaleHandler) DailyReport(c *fiber.Ctx) error {
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REPORTS_DISABLED", Message: "generación de reportes no disponible"})
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = parsed
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	summary, err := h.uc.GetSalesSummary(c.Context(), dayStart, dayEnd)
	if err != nil {
		return domainError(c, err)
	}
	hourly, err := h.uc.GetHourlyAnalytics(c.Context(), dayStart)
	if err != nil {
		return domainError(c, err)
	}

	bytes, err := h.reports.GenerateDailySalesReport(c.Context(), dayStart, summary, hourly)
	if err != nil {
		return domainError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ventas-%s.pdf"`, dayStart.Format(dateLayout)))
	return c.Send(bytes)
}

// GetHourlyAnalytics godoc
// @Summary      Serie horaria de ventas de un día
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.HourlyAnalyticsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/analytics/hourly [get]
func (h *SaleHandler) GetHourlyAnalytics(c *fiber.Ctx) error {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = parsed
	}
	out, err := h.uc.GetHourlyAnalytics(c.Context(), date)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
