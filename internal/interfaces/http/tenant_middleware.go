package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
)

// LocalOrganizationID key del tenant en c.Locals.
const LocalOrganizationID = "organization_id"

// HeaderOrganizationID header del que se toma el tenant. La autenticación vive
// en el gateway; este servicio solo exige que el tenant venga resuelto.
const HeaderOrganizationID = "X-Organization-ID"

// TenantMiddleware exige el header de organización y lo deja en c.Locals.
// Toda fila y toda consulta quedan acotadas a esa organización.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID := c.Get(HeaderOrganizationID)
		if orgID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_ORGANIZATION", Message: "falta el header " + HeaderOrganizationID,
			})
		}
		c.Locals(LocalOrganizationID, orgID)
		return c.Next()
	}
}

// GetOrganizationID devuelve el tenant del request; vacío si el middleware no corrió.
func GetOrganizationID(c *fiber.Ctx) string {
	v := c.Locals(LocalOrganizationID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
