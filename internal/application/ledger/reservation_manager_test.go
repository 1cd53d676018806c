package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

func newManager(t *testing.T) (*ledger.ReservationManager, *ledgertest.FakeStockLevels, *ledgertest.FakeReservations) {
	t.Helper()
	levels := ledgertest.NewFakeStockLevels()
	reservations := ledgertest.NewFakeReservations()
	led := ledger.NewStockLedger(levels)
	return ledger.NewReservationManager(led, reservations), levels, reservations
}

func TestReserve_DescuentaDisponibilidad(t *testing.T) {
	rm, levels, reservations := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("10"), decimal.Zero)

	res, err := rm.Reserve(scopeA(), d("4"), entity.OrderTypeSales, "so-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusActive, res.Status)
	assert.True(t, res.ExpiresAt.After(time.Now().Add(6*24*time.Hour)), "TTL por defecto de 7 días")

	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Reserved.Equal(d("4")))
	assert.True(t, lv.Available.Equal(d("6")))
	assert.True(t, lv.OnHand.Equal(d("10")))
	assert.Equal(t, 1, reservations.ActiveCount())
}

func TestReserve_StockInsuficienteNoReservaParcial(t *testing.T) {
	rm, levels, reservations := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("5"), decimal.Zero)

	_, err := rm.Reserve(scopeA(), d("8"), entity.OrderTypeSales, "so-1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni el nivel ni la tabla de reservas cambian
	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Available.Equal(d("5")))
	assert.True(t, lv.Reserved.IsZero())
	assert.Empty(t, reservations.All)
}

func TestReserveRelease_Simetria(t *testing.T) {
	rm, levels, reservations := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("10"), decimal.Zero)

	_, err := rm.Reserve(scopeA(), d("4"), entity.OrderTypeSales, "so-1")
	require.NoError(t, err)
	require.NoError(t, rm.Release(scopeA(), d("4"), entity.OrderTypeSales, "so-1"))

	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Available.Equal(d("10")), "available vuelve al valor previo")
	assert.True(t, lv.Reserved.IsZero())
	assert.Equal(t, 0, reservations.ActiveCount(), "no queda reserva activa para la orden")
}

func TestRelease_SinReservaEsNoOp(t *testing.T) {
	rm, levels, _ := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("10"), decimal.Zero)

	require.NoError(t, rm.Release(scopeA(), d("4"), entity.OrderTypeSales, "so-x"))
	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Available.Equal(d("10")))
}

func TestRelease_DevuelveComoMaximoLoReservado(t *testing.T) {
	rm, levels, _ := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("10"), decimal.Zero)

	_, err := rm.Reserve(scopeA(), d("3"), entity.OrderTypeSales, "so-1")
	require.NoError(t, err)
	// Pedir liberar más de lo reservado devuelve solo lo reservado
	require.NoError(t, rm.Release(scopeA(), d("99"), entity.OrderTypeSales, "so-1"))

	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Reserved.IsZero())
	assert.True(t, lv.Available.Equal(d("10")))
}

func TestExpireAll_RestauraYEsIdempotente(t *testing.T) {
	rm, levels, reservations := newManager(t)
	levels.Seed(testOrg, testProd, testVar, testLocA, d("10"), d("4"))

	// Reserva activa con expires_at en el pasado
	reservations.All = append(reservations.All, &entity.Reservation{
		ID:              uuid.New().String(),
		OrganizationID:  testOrg,
		ProductID:       testProd,
		LocationID:      testLocA,
		Quantity:        d("4"),
		ReservedForType: entity.OrderTypeSales,
		ReservedForID:   "so-1",
		Status:          entity.ReservationStatusActive,
		ExpiresAt:       time.Now().Add(-time.Hour),
	})

	n, err := rm.ExpireAll(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.ReservationStatusExpired, reservations.All[0].Status)

	lv := levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Reserved.IsZero())
	assert.True(t, lv.Available.Equal(d("10")))

	// Segunda pasada: no-op
	n, err = rm.ExpireAll(testOrg)
	require.NoError(t, err)
	assert.Zero(t, n)
	lv = levels.Must(testOrg, testProd, testVar, testLocA)
	assert.True(t, lv.Available.Equal(d("10")))
}
