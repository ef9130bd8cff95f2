package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// DiscrepancyHandler revisión de incidencias (supervisor/admin).
type DiscrepancyHandler struct {
	uc *usecase.DiscrepancyUseCase
}

// NewDiscrepancyHandler construye el handler.
func NewDiscrepancyHandler(uc *usecase.DiscrepancyUseCase) *DiscrepancyHandler {
	return &DiscrepancyHandler{uc: uc}
}

// List lista incidencias; ?unresolved=true filtra las pendientes.
func (h *DiscrepancyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.List(c.QueryBool("unresolved"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// ListByTask incidencias reportadas contra una tarea.
func (h *DiscrepancyHandler) ListByTask(c *fiber.Ctx) error {
	items, err := h.uc.ListByTask(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// Resolve adjunta la resolución de un supervisor.
func (h *DiscrepancyHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveDiscrepancyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Resolve(GetUsername(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
