package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
)

// RespondError mapea errores de dominio a status HTTP. Conflictos de estado,
// stock y unicidad responden 409; entradas inválidas 400; desconocidos 500.
func RespondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConflictingLocations):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFLICTING_LOCATIONS", Message: "origen y destino no pueden ser la misma ubicación"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la transición no es válida desde el estado actual"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConstraintViolation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "violación de unicidad"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
