package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrNotAssigned       = errors.New("tarea no asignada al operario")
	ErrInvalidOperation  = errors.New("operación inválida para el estado actual")
	ErrWrongProduct      = errors.New("el producto escaneado no corresponde a la línea")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrContention        = errors.New("registro bloqueado por otra operación, reintente")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)
