package fulfillment_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

const (
	testOrg  = "org-1"
	testLocA = "loc-a"
	testLocB = "loc-b"
	testProd = "prod-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// captureRecorder acumula los eventos de transición emitidos.
type captureRecorder struct {
	mu     sync.Mutex
	Events []fulfillment.TransitionEvent
}

func (c *captureRecorder) RecordTransition(_ context.Context, ev fulfillment.TransitionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, ev)
}

// env arma el motor con repos en memoria para los tests de los cuatro flujos.
type env struct {
	engine       *fulfillment.Engine
	tx           *ledgertest.FakeTxRunner
	levels       *ledgertest.FakeStockLevels
	movements    *ledgertest.FakeMovements
	reservations *ledgertest.FakeReservations
	recorder     *captureRecorder
}

func newEnv() *env {
	tx, levels, movs, res := ledgertest.NewFakeTxRunner()
	rec := &captureRecorder{}
	return &env{
		engine:       fulfillment.NewEngine(tx, rec, logger.Nop()),
		tx:           tx,
		levels:       levels,
		movements:    movs,
		reservations: res,
		recorder:     rec,
	}
}
