package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia para órdenes de venta.
type SalesOrderRepository interface {
	Create(order *entity.SalesOrder) error
	GetByID(orgID, id string) (*entity.SalesOrder, error)
	GetByIDForUpdate(orgID, id string) (*entity.SalesOrder, error)
	UpdateStatus(id, status string) error
	UpdateItemShipped(itemID string, shipped decimal.Decimal) error
	ListByOrganization(orgID string, limit, offset int) ([]*entity.SalesOrder, error)
}
