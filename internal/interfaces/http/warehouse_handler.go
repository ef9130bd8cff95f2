package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// WarehouseHandler CRUD de almacenes y emplazamientos (protegido).
type WarehouseHandler struct {
	warehouseUC *usecase.WarehouseUseCase
	locationUC  *usecase.LocationUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(warehouseUC *usecase.WarehouseUseCase, locationUC *usecase.LocationUseCase) *WarehouseHandler {
	return &WarehouseHandler{warehouseUC: warehouseUC, locationUC: locationUC}
}

// Create crea un almacén.
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.warehouseUC.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID obtiene un almacén por ID.
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.warehouseUC.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List lista almacenes.
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	items, err := h.warehouseUC.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// ListLocations emplazamientos de un almacén.
func (h *WarehouseHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	resp, err := h.locationUC.ListByWarehouse(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// CreateLocation crea un emplazamiento.
func (h *WarehouseHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.locationUC.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetLocation obtiene un emplazamiento por ID.
func (h *WarehouseHandler) GetLocation(c *fiber.Ctx) error {
	resp, err := h.locationUC.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// UpdateLocation actualiza zona y tipo; el código no cambia.
func (h *WarehouseHandler) UpdateLocation(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.locationUC.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// DeactivateLocation baja lógica del emplazamiento.
func (h *WarehouseHandler) DeactivateLocation(c *fiber.Ctx) error {
	if err := h.locationUC.Deactivate(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "emplazamiento desactivado"})
}
