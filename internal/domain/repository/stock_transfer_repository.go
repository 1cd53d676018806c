package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// StockTransferRepository define el puerto de persistencia para traslados de stock.
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(orgID, id string) (*entity.StockTransfer, error)
	GetByIDForUpdate(orgID, id string) (*entity.StockTransfer, error)
	UpdateStatus(id, status string) error
	UpdateItemReceived(itemID string, received decimal.Decimal) error
	ListByOrganization(orgID string, limit, offset int) ([]*entity.StockTransfer, error)
}
