package repository

import (
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de stock.
// Los movimientos son inmutables: solo inserción y lectura.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// ListRecentInbound devuelve los últimos movimientos stock_in (más recientes primero)
	// para el alcance producto+variante(+ubicación); locationID vacío = todas.
	ListRecentInbound(orgID, productID, variantID, locationID string, limit int) ([]*entity.Movement, error)
	ListByProduct(orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByOrder(orgID, orderType, orderID string) ([]*entity.Movement, error)
}
