package ledger

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// TxRunner entrega una instancia por transacción; todo lo que se haga con
// estos repos dentro del callback forma una unidad atómica.
type Repos struct {
	StockLevels    repository.StockLevelRepository
	Movements      repository.MovementRepository
	Reservations   repository.ReservationRepository
	PurchaseOrders repository.PurchaseOrderRepository
	SalesOrders    repository.SalesOrderRepository
	StockTransfers repository.StockTransferRepository
	ReturnOrders   repository.ReturnOrderRepository
	OrderNumbers   repository.OrderNumberRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn devuelve nil; Rollback en caso contrario.
// Garantiza atomicidad para el motor de inventario y las máquinas de estado.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
