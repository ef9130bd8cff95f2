package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// InventoryHandler consultas de inventario y ajustes administrativos. Todas las
// cifras salen del ledger.
type InventoryHandler struct {
	uc *usecase.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetBalance godoc
// @Summary      Saldo vigente de un producto en un emplazamiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "ID del producto"
// @Param        location_id  query  string  true  "ID del emplazamiento"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationID := c.Query("location_id")
	if productID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location_id requeridos"})
	}
	resp, err := h.uc.GetBalance(productID, locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetProductInventory stock de un producto desglosado por emplazamiento.
func (h *InventoryHandler) GetProductInventory(c *fiber.Ctx) error {
	resp, err := h.uc.GetProductInventory(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ListMovements historial de movimientos de un producto, con rango de fechas opcional.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	if locationID := c.Query("location_id"); locationID != "" {
		resp, err := h.uc.ListMovementsByPair(c.Params("id"), locationID, page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(resp)
	}
	resp, err := h.uc.ListMovementsByProduct(c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ListTaskMovements movimientos generados por una tarea.
func (h *InventoryHandler) ListTaskMovements(c *fiber.Ctx) error {
	items, err := h.uc.ListMovementsByTask(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetAlerts productos bajo su stock mínimo.
func (h *InventoryHandler) GetAlerts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	alerts, err := h.uc.GetStockAlerts(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}

// ApplyAdjustment godoc
// @Summary      Ajuste administrativo de stock (solo admin)
// @Description  Registra un delta con signo en el ledger y deja una tarea
//
//	ADJUSTMENT completada como rastro auditable.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "product_id, location_id, quantity (delta con signo), reason"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.ApplyAdjustment(c.Context(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
