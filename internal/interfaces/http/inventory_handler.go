package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/redisx"
)

// InventoryHandler maneja las consultas de solo lectura del ledger:
// disponibilidad, histórico de movimientos y costo promedio.
type InventoryHandler struct {
	queries *ledger.Queries
	cache   *redisx.AvailabilityCache // nil = sin cache
}

// NewInventoryHandler construye el handler. cache puede ser nil.
func NewInventoryHandler(queries *ledger.Queries, cache *redisx.AvailabilityCache) *InventoryHandler {
	return &InventoryHandler{queries: queries, cache: cache}
}

// GetAvailability devuelve las ubicaciones con disponibilidad > 0 de un producto.
// Pasa por el cache Redis con TTL corto; un miss o un Redis caído van a BD.
func (h *InventoryHandler) GetAvailability(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	productID := c.Params("productId")
	variantID := c.Query("variant_id")
	locationID := c.Query("location_id")

	if h.cache != nil {
		if cached, _ := h.cache.Get(c.Context(), orgID, productID, variantID, locationID); cached != nil {
			return c.JSON(fiber.Map{"total": len(cached), "availability": dto.FromAvailability(cached)})
		}
	}

	list, err := h.queries.Availability(orgID, productID, variantID, locationID)
	if err != nil {
		return RespondError(c, err)
	}
	if h.cache != nil {
		h.cache.Set(c.Context(), orgID, productID, variantID, locationID, list)
	}
	return c.JSON(fiber.Map{"total": len(list), "availability": dto.FromAvailability(list)})
}

// ListMovements histórico de movimientos de un producto, con rango de fechas opcional.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC3339)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC3339)"})
	}

	list, err := h.queries.Movements(GetOrganizationID(c), c.Params("productId"), from, to, page.Limit, page.Offset)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.FromMovements(list)})
}

// ListOrderMovements movimientos originados por una orden específica.
func (h *InventoryHandler) ListOrderMovements(c *fiber.Ctx) error {
	list, err := h.queries.MovementsByOrder(GetOrganizationID(c), c.Params("orderType"), c.Params("orderId"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": dto.FromMovements(list)})
}

// GetWeightedCost costo promedio ponderado de las últimas entradas de un producto.
func (h *InventoryHandler) GetWeightedCost(c *fiber.Ctx) error {
	orgID := GetOrganizationID(c)
	productID := c.Params("productId")
	variantID := c.Query("variant_id")
	locationID := c.Query("location_id")

	cost, err := h.queries.WeightedAverageCost(orgID, productID, variantID, locationID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.WeightedCostResponse{
		ProductID:  productID,
		VariantID:  variantID,
		LocationID: locationID,
		UnitCost:   cost,
	})
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
