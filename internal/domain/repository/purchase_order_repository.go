package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// Los items pertenecen a la orden: se insertan y borran junto con ella.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus items; nil si no existe.
	GetByID(orgID, id string) (*entity.PurchaseOrder, error)
	// GetByIDForUpdate bloquea la fila de la orden para serializar transiciones.
	GetByIDForUpdate(orgID, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(id, status string) error
	UpdateItemReceived(itemID string, received decimal.Decimal) error
	ListByOrganization(orgID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
