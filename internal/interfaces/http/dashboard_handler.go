package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shoptrack/pos-api/internal/application/dashboard"
)

// DashboardHandler expone el resumen agregado de la pantalla principal.
type DashboardHandler struct {
	uc *dashboard.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Métricas de hoy y del mes, top de productos, estado agregado
// @Description  de inventario, alertas activas, horas pico previstas y ventas
// @Description  recientes. Las fuentes se consultan en paralelo.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
