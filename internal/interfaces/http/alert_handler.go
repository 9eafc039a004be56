package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/dto"
)

// AlertHandler maneja el ciclo de vida y las consultas de alertas.
type AlertHandler struct {
	uc *alerting.AlertEngineUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerting.AlertEngineUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// GetActive godoc
// @Summary      Alertas activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type      query  string  false  "Filtrar por tipo (LOW_STOCK, OUT_OF_STOCK, ...)"
// @Param        severity  query  string  false  "Filtrar por severidad (LOW, MEDIUM, HIGH, CRITICAL)"
// @Param        limit     query  int     false  "Límite"  default(50)  maximum(500)
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/alerts/active [get]
func (h *AlertHandler) GetActive(c *fiber.Ctx) error {
	alertType := c.Query("type")
	severity := c.Query("severity")
	limit := c.QueryInt("limit", 0)

	items, err := h.uc.GetActive(c.Context(), alertType, severity, limit)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.AlertListResponse{Items: items, Total: len(items)})
}

// Acknowledge godoc
// @Summary      Reconocer alerta
// @Description  ACTIVE -> ACKNOWLEDGED. Cualquier otro estado responde 409.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Acknowledge, "alerta reconocida")
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  ACTIVE o ACKNOWLEDGED -> RESOLVED.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Resolve, "alerta resuelta")
}

// Dismiss godoc
// @Summary      Descartar alerta
// @Description  ACTIVE -> DISMISSED sin marcarla como resuelta.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Dismiss, "alerta descartada")
}

func (h *AlertHandler) transition(
	c *fiber.Ctx,
	fn func(ctx context.Context, alertID, userID string) (bool, error),
	message string,
) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if _, err := fn(c.Context(), id, GetUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// GetStatistics godoc
// @Summary      Estadísticas de alertas
// @Description  Conteos por tipo, severidad y estado de los últimos days días,
// @Description  más la tasa de resolución.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(7)  maximum(365)
// @Success      200   {object}  dto.AlertStatisticsResponse
// @Router       /api/alerts/statistics [get]
func (h *AlertHandler) GetStatistics(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	out, err := h.uc.GetStatistics(c.Context(), days)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Cleanup godoc
// @Summary      Expirar alertas vencidas
// @Description  Pasa a EXPIRED toda alerta ACTIVE cuya vigencia venció. El
// @Description  scheduler lo ejecuta cada 30 minutos; este endpoint fuerza una
// @Description  pasada inmediata.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/cleanup [post]
func (h *AlertHandler) Cleanup(c *fiber.Ctx) error {
	count, err := h.uc.CleanupExpired(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"expired": count})
}
