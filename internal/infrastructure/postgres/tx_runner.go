package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando el
// juego completo de repositorios atados a esa tx. Cada transición de las
// máquinas de estado corre entera dentro de un Run.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ledger.Repos{
		StockLevels:    NewStockLevelRepository(tx),
		Movements:      NewMovementRepository(tx),
		Reservations:   NewReservationRepository(tx),
		PurchaseOrders: NewPurchaseOrderRepository(tx),
		SalesOrders:    NewSalesOrderRepository(tx),
		StockTransfers: NewStockTransferRepository(tx),
		ReturnOrders:   NewReturnOrderRepository(tx),
		OrderNumbers:   NewOrderNumberRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
