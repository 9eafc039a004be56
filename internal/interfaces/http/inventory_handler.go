package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/pkg/validator"
)

// InventoryHandler maneja las consultas y ajustes del libro de inventario.
type InventoryHandler struct {
	uc *ledger.StockLedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *ledger.StockLedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetStatus godoc
// @Summary      Estado de inventario
// @Description  Niveles actuales con su clasificación de stock. Con product_id
// @Description  devuelve solo ese producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Success      200  {object}  dto.InventoryStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/status [get]
func (h *InventoryHandler) GetStatus(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	items, err := h.uc.GetInventoryStatus(c.Context(), productID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.InventoryStatusResponse{Items: items, Total: len(items)})
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un movimiento con delta firmado al libro de inventario
// @Description  dentro de una transacción con bloqueo de fila. Las salidas
// @Description  manuales se recortan a cero; solo las ventas exigen stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, quantity (delta), movement_type"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/update [put]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msgs := validator.ValidateStruct(in); msgs != nil {
		return validationError(c, msgs)
	}
	result, err := h.uc.ApplyMovement(c.Context(), ledger.MovementInput{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		Quantity:      in.Quantity,
		MovementType:  in.MovementType,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponse(result.Movement))
}

// GetLowStock godoc
// @Summary      Productos con stock bajo
// @Description  Productos cuya disponibilidad está en o bajo el umbral. Sin
// @Description  threshold se usa el punto de reorden de cada producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral fijo para todos los productos"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		v := c.QueryInt("threshold")
		if v < 0 {
			v = 0
		}
		threshold = &v
	}
	items, err := h.uc.GetLowStockProducts(c.Context(), threshold)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.LowStockResponse{Items: items, Total: len(items)})
}

// GetMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        limit       query  int     false  "Límite"  default(100)  maximum(500)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	limit := c.QueryInt("limit", 0)
	movements, err := h.uc.GetStockMovements(c.Context(), productID, limit)
	if err != nil {
		return domainError(c, err)
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		LocationID:       m.LocationID,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		MovementType:     m.MovementType,
		ReferenceID:      m.ReferenceID,
		ReferenceType:    m.ReferenceType,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}
