package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInvalidState         = errors.New("transición no permitida desde el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrConflictingLocations = errors.New("ubicación origen y destino no pueden ser iguales")
	ErrConstraintViolation  = errors.New("conflicto de unicidad en la capa de almacenamiento")
)
