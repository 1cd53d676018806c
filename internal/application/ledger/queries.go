package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Queries agrupa las consultas de solo lectura del ledger (read path HTTP).
// Usa repositorios atados al pool: ninguna consulta necesita transacción.
type Queries struct {
	levels    repository.StockLevelRepository
	movements repository.MovementRepository
	costing   *Costing
}

// NewQueries construye el servicio de consultas.
func NewQueries(levels repository.StockLevelRepository, movements repository.MovementRepository) *Queries {
	return &Queries{levels: levels, movements: movements, costing: NewCosting(movements)}
}

// Availability devuelve las ubicaciones con disponibilidad > 0 del producto/variante.
func (q *Queries) Availability(orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error) {
	return q.levels.ListAvailability(orgID, productID, variantID, locationID)
}

// Movements lista el histórico de movimientos de un producto en un rango de fechas.
func (q *Queries) Movements(orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movements.ListByProduct(orgID, productID, from, to, limit, offset)
}

// MovementsByOrder lista los movimientos originados por una orden.
func (q *Queries) MovementsByOrder(orgID, orderType, orderID string) ([]*entity.Movement, error) {
	return q.movements.ListByOrder(orgID, orderType, orderID)
}

// WeightedAverageCost costo promedio ponderado de las últimas entradas del alcance.
func (q *Queries) WeightedAverageCost(orgID, productID, variantID, locationID string) (decimal.Decimal, error) {
	return q.costing.WeightedAverageCost(orgID, productID, variantID, locationID)
}
