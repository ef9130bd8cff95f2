package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// respondError traduce los errores de dominio a respuestas HTTP. Todos los
// handlers pasan por aquí para que el mismo error responda siempre igual.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNotAssigned):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_ASSIGNED", Message: "la tarea no está asignada a este operario"})
	case errors.Is(err, domain.ErrInvalidOperation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_OPERATION", Message: "la operación no es válida en el estado actual"})
	case errors.Is(err, domain.ErrWrongProduct):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WRONG_PRODUCT", Message: "el código escaneado no corresponde al producto esperado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrContention):
		// Reintentable: otro escritor retiene el par.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "recurso en uso, reintente"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
