package fulfillment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

func createTransfer(t *testing.T, e *env, qty string) *entity.StockTransfer {
	t.Helper()
	uc := fulfillment.NewStockTransfers(e.engine)
	tr, err := uc.Create(context.Background(), fulfillment.CreateStockTransferInput{
		OrganizationID: testOrg,
		FromLocationID: testLocA,
		ToLocationID:   testLocB,
		Items:          []fulfillment.TransferItemInput{{ProductID: testProd, Quantity: d(qty)}},
	})
	require.NoError(t, err)
	return tr
}

func TestStockTransfer_FlujoCompleto(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("5"), d("0"))

	tr := createTransfer(t, e, "5")
	assert.True(t, strings.HasPrefix(tr.Number, "TRF-"))
	assert.Equal(t, entity.StockTransferStatusDraft, tr.Status)

	// Aprobar reserva en origen: available 5 -> 0
	tr, err := uc.Approve(context.Background(), testOrg, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTransferStatusInTransit, tr.Status)
	lvA := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lvA.Reserved.Equal(d("5")))
	assert.True(t, lvA.Available.IsZero())

	onHandBefore := lvA.OnHand // destino arranca en cero

	// Completar: origen -5, destino +5, dos movimientos, reserva liberada
	tr, err = uc.Complete(context.Background(), testOrg, tr.ID, []fulfillment.ItemQuantity{
		{ItemID: tr.Items[0].ID, Quantity: d("5")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockTransferStatusCompleted, tr.Status)

	lvA = e.levels.Must(testOrg, testProd, "", testLocA)
	lvB := e.levels.Must(testOrg, testProd, "", testLocB)
	assert.True(t, lvA.OnHand.IsZero())
	assert.True(t, lvB.OnHand.Equal(d("5")))

	// Conservación: la suma de on-hand en A y B no cambia
	assert.True(t, lvA.OnHand.Add(lvB.OnHand).Equal(onHandBefore))

	movs, err := e.movements.ListByOrder(testOrg, entity.OrderTypeTransfer, tr.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, testLocA, movs[0].FromLocationID)
	assert.Empty(t, movs[0].ToLocationID)
	assert.Equal(t, testLocB, movs[1].ToLocationID)
	assert.Empty(t, movs[1].FromLocationID)
	assert.Equal(t, 0, e.reservations.ActiveCount())
}

func TestStockTransfer_OrigenIgualDestino(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	_, err := uc.Create(context.Background(), fulfillment.CreateStockTransferInput{
		OrganizationID: testOrg,
		FromLocationID: testLocA,
		ToLocationID:   testLocA,
		Items:          []fulfillment.TransferItemInput{{ProductID: testProd, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrConflictingLocations)
}

func TestStockTransfer_CreateValidaDisponibilidadAntesDeEscribir(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("3"), d("0"))

	_, err := uc.Create(context.Background(), fulfillment.CreateStockTransferInput{
		OrganizationID: testOrg,
		FromLocationID: testLocA,
		ToLocationID:   testLocB,
		Items:          []fulfillment.TransferItemInput{{ProductID: testProd, Quantity: d("5")}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ninguna fila escrita
	list, err := e.tx.Repos.StockTransfers.ListByOrganization(testOrg, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStockTransfer_LlegadaParcialMantieneInTransit(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	tr := createTransfer(t, e, "10")
	_, err := uc.Approve(context.Background(), testOrg, tr.ID)
	require.NoError(t, err)

	tr, err = uc.Complete(context.Background(), testOrg, tr.ID, []fulfillment.ItemQuantity{
		{ItemID: tr.Items[0].ID, Quantity: d("4")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockTransferStatusInTransit, tr.Status)

	lvB := e.levels.Must(testOrg, testProd, "", testLocB)
	assert.True(t, lvB.OnHand.Equal(d("4")))
}

func TestStockTransfer_CompletadoNoSeCancela(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("5"), d("0"))

	tr := createTransfer(t, e, "5")
	_, err := uc.Approve(context.Background(), testOrg, tr.ID)
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), testOrg, tr.ID, []fulfillment.ItemQuantity{
		{ItemID: tr.Items[0].ID, Quantity: d("5")},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), testOrg, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestStockTransfer_CancelarEnTransitoLiberaReservas(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewStockTransfers(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("5"), d("0"))

	tr := createTransfer(t, e, "5")
	_, err := uc.Approve(context.Background(), testOrg, tr.ID)
	require.NoError(t, err)

	tr, err = uc.Cancel(context.Background(), testOrg, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTransferStatusCancelled, tr.Status)
	assert.Equal(t, 0, e.reservations.ActiveCount())
	lvA := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lvA.Available.Equal(d("5")))
}
