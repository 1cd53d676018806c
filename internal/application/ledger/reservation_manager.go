package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// ReservationManager crea, consume, libera y expira reservas contra el StockLedger.
// Toda operación muta ledger y reserva dentro de la transacción del caller.
type ReservationManager struct {
	ledger       *StockLedger
	reservations repository.ReservationRepository
}

// NewReservationManager construye el manager sobre el ledger y el repo de reservas de la misma tx.
func NewReservationManager(ledger *StockLedger, reservations repository.ReservationRepository) *ReservationManager {
	return &ReservationManager{ledger: ledger, reservations: reservations}
}

// Reserve retiene quantity unidades para una orden. Falla con ErrInsufficientStock
// si available < quantity; nunca reserva parcialmente. En éxito sube reserved
// (available baja en consecuencia) e inserta la reserva activa con TTL por defecto.
func (rm *ReservationManager) Reserve(scope Scope, quantity decimal.Decimal, forType, forID string) (*entity.Reservation, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	level, err := rm.ledger.levels.GetForUpdate(scope.OrganizationID, scope.ProductID, scope.VariantID, scope.LocationID)
	if err != nil {
		return nil, err
	}
	if level.Available.LessThan(quantity) {
		return nil, domain.ErrInsufficientStock
	}
	if _, err := rm.ledger.Adjust(scope, decimal.Zero, quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	res := &entity.Reservation{
		ID:              uuid.New().String(),
		OrganizationID:  scope.OrganizationID,
		ProductID:       scope.ProductID,
		VariantID:       scope.VariantID,
		LocationID:      scope.LocationID,
		Quantity:        quantity,
		ReservedForType: forType,
		ReservedForID:   forID,
		Status:          entity.ReservationStatusActive,
		ExpiresAt:       now.Add(entity.ReservationDefaultTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := rm.reservations.Create(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Release busca la reserva activa que matchea la orden, la marca consumed y
// devuelve min(quantity, reserva.Quantity) de reserved a available.
// No-op idempotente si no hay reserva activa que matchee.
func (rm *ReservationManager) Release(scope Scope, quantity decimal.Decimal, forType, forID string) error {
	res, err := rm.reservations.FindActive(scope.OrganizationID, scope.ProductID, scope.VariantID, scope.LocationID, forType, forID)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	give := decimal.Min(quantity, res.Quantity)
	if err := rm.reservations.UpdateStatus(res.ID, entity.ReservationStatusConsumed); err != nil {
		return err
	}
	_, err = rm.ledger.Adjust(scope, decimal.Zero, give.Neg())
	return err
}

// ExpireAll recorre las reservas activas vencidas de la organización, las marca
// expired y devuelve su cantidad a available. Una segunda pasada es no-op para
// las ya expiradas. Pensada para ser invocada por un scheduler externo; el core
// nunca la dispara en sus propios paths de lectura.
func (rm *ReservationManager) ExpireAll(orgID string) (int, error) {
	expired, err := rm.reservations.ListExpired(orgID, time.Now())
	if err != nil {
		return 0, err
	}
	for _, res := range expired {
		if err := rm.reservations.UpdateStatus(res.ID, entity.ReservationStatusExpired); err != nil {
			return 0, err
		}
		scope := Scope{
			OrganizationID: res.OrganizationID,
			ProductID:      res.ProductID,
			VariantID:      res.VariantID,
			LocationID:     res.LocationID,
		}
		if _, err := rm.ledger.Adjust(scope, decimal.Zero, res.Quantity.Neg()); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// ReleaseAllForOrder libera todas las reservas activas de una orden (cancelaciones).
func (rm *ReservationManager) ReleaseAllForOrder(orgID, forType, forID string) error {
	active, err := rm.reservations.ListActiveByOrder(orgID, forType, forID)
	if err != nil {
		return err
	}
	for _, res := range active {
		if err := rm.reservations.UpdateStatus(res.ID, entity.ReservationStatusConsumed); err != nil {
			return err
		}
		scope := Scope{
			OrganizationID: res.OrganizationID,
			ProductID:      res.ProductID,
			VariantID:      res.VariantID,
			LocationID:     res.LocationID,
		}
		if _, err := rm.ledger.Adjust(scope, decimal.Zero, res.Quantity.Neg()); err != nil {
			return err
		}
	}
	return nil
}
