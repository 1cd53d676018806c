package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Ventana de movimientos de entrada considerada para el costo promedio.
const costingWindow = 100

// Costing calcula el costo promedio ponderado a partir del histórico de entradas.
// Usa el costo unitario real persistido en cada movimiento stock_in.
type Costing struct {
	movements repository.MovementRepository
}

// NewCosting construye el servicio de costeo.
func NewCosting(movements repository.MovementRepository) *Costing {
	return &Costing{movements: movements}
}

// WeightedAverageCost devuelve Σ(costo_unitario × cantidad) / Σ(cantidad) sobre
// las últimas entradas del alcance; locationID vacío = todas las ubicaciones.
// Cero si no hay histórico de entradas.
func (c *Costing) WeightedAverageCost(orgID, productID, variantID, locationID string) (decimal.Decimal, error) {
	movs, err := c.movements.ListRecentInbound(orgID, productID, variantID, locationID, costingWindow)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.WeightedAverageFromMovements(movs), nil
}
