package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// ReturnOrderRepository define el puerto de persistencia para órdenes de devolución.
type ReturnOrderRepository interface {
	Create(order *entity.ReturnOrder) error
	GetByID(orgID, id string) (*entity.ReturnOrder, error)
	GetByIDForUpdate(orgID, id string) (*entity.ReturnOrder, error)
	UpdateStatus(id, status string) error
	// UpdateItemProcessed registra cantidad procesada y la disposición aplicada.
	UpdateItemProcessed(itemID string, processed decimal.Decimal, disposition string) error
	ListByOrganization(orgID string, limit, offset int) ([]*entity.ReturnOrder, error)
}
