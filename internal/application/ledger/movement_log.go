package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// MovementLog registra cada cambio de cantidad como un movimiento inmutable.
// Inserción pura: nunca valida contra el StockLedger; las máquinas de estado son
// responsables de llamar a ambos dentro de la misma transacción.
type MovementLog struct {
	movements repository.MovementRepository
}

// NewMovementLog construye el log sobre el repositorio de movimientos (atado a la tx del caller).
func NewMovementLog(movements repository.MovementRepository) *MovementLog {
	return &MovementLog{movements: movements}
}

// MovementRecord entrada para registrar un movimiento. Quantity debe ser positiva;
// la dirección queda implícita en Type y en cuál de From/To está poblado.
type MovementRecord struct {
	Scope           Scope
	Type            string
	FromLocationID  string
	ToLocationID    string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	SourceOrderType string
	SourceOrderID   string
	Reason          string
}

// Record persiste el movimiento y lo devuelve.
func (m *MovementLog) Record(rec MovementRecord) (*entity.Movement, error) {
	if !rec.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		OrganizationID:  rec.Scope.OrganizationID,
		ProductID:       rec.Scope.ProductID,
		VariantID:       rec.Scope.VariantID,
		FromLocationID:  rec.FromLocationID,
		ToLocationID:    rec.ToLocationID,
		Quantity:        rec.Quantity,
		UnitCost:        rec.UnitCost,
		Type:            rec.Type,
		SourceOrderType: rec.SourceOrderType,
		SourceOrderID:   rec.SourceOrderID,
		Reason:          rec.Reason,
		CreatedAt:       time.Now(),
	}
	if err := m.movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
