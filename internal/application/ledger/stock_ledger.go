package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Scope identifica una tupla de stock: organización + producto + variante + ubicación.
type Scope struct {
	OrganizationID string
	ProductID      string
	VariantID      string // vacío = sin variante
	LocationID     string
}

// StockLedger es la única fuente de verdad de on-hand/reserved/available por tupla.
// No registra movimientos por sí mismo: el caller debe llamar a MovementLog en la
// misma transacción.
type StockLedger struct {
	levels repository.StockLevelRepository
}

// NewStockLedger construye el ledger sobre el repositorio de niveles (atado a la tx del caller).
func NewStockLedger(levels repository.StockLevelRepository) *StockLedger {
	return &StockLedger{levels: levels}
}

// Adjust bloquea la fila (SELECT FOR UPDATE), aplica los deltas y persiste.
// OnHand y Reserved se recortan a cero en vez de fallar por underflow; Available
// se recalcula como OnHand - Reserved con clamp a cero independiente
// (comportamiento preservado del diseño original, ver tests).
func (l *StockLedger) Adjust(scope Scope, deltaOnHand, deltaReserved decimal.Decimal) (*entity.StockLevel, error) {
	level, err := l.levels.GetForUpdate(scope.OrganizationID, scope.ProductID, scope.VariantID, scope.LocationID)
	if err != nil {
		return nil, err
	}

	level.OnHand = clampZero(level.OnHand.Add(deltaOnHand))
	level.Reserved = clampZero(level.Reserved.Add(deltaReserved))
	level.Available = clampZero(level.OnHand.Sub(level.Reserved))
	level.UpdatedAt = time.Now()

	if err := l.levels.Upsert(level); err != nil {
		return nil, err
	}
	return level, nil
}

// Availability devuelve las ubicaciones con disponibilidad > 0 para un producto/variante.
// locationID vacío consulta todas las ubicaciones de la organización.
func (l *StockLedger) Availability(orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error) {
	return l.levels.ListAvailability(orgID, productID, variantID, locationID)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}
