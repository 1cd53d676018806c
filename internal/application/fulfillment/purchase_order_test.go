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

func createPO(t *testing.T, e *env, items ...fulfillment.PurchaseItemInput) *entity.PurchaseOrder {
	t.Helper()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	po, err := uc.Create(context.Background(), fulfillment.CreatePurchaseOrderInput{
		OrganizationID: testOrg,
		SupplierName:   "Proveedor SA",
		LocationID:     testLocA,
		Items:          items,
	})
	require.NoError(t, err)
	return po
}

func TestPurchaseOrder_CreateGeneraNumeroConPrefijo(t *testing.T) {
	e := newEnv()
	po := createPO(t, e, fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("10"), UnitCost: d("100")})

	assert.Equal(t, entity.PurchaseOrderStatusDraft, po.Status)
	assert.True(t, strings.HasPrefix(po.Number, "PR-"))
	assert.True(t, strings.HasSuffix(po.Number, "-0001"))
	assert.True(t, po.Totals.Subtotal.Equal(d("1000")))
	assert.True(t, po.Totals.GrandTotal.Equal(d("1000")))

	// La secuencia avanza: segunda orden del día termina en 0002
	po2 := createPO(t, e, fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("1"), UnitCost: d("5")})
	assert.True(t, strings.HasSuffix(po2.Number, "-0002"))
}

func TestPurchaseOrder_RecepcionParcialMantieneApproved(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	po := createPO(t, e,
		fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("10"), UnitCost: d("100")},
		fulfillment.PurchaseItemInput{ProductID: "prod-2", Quantity: d("5"), UnitCost: d("50")},
	)

	_, err := uc.Approve(context.Background(), testOrg, po.ID)
	require.NoError(t, err)

	// Recibir solo la primera línea: la orden sigue approved
	po, err = uc.Receive(context.Background(), testOrg, po.ID, []fulfillment.ItemQuantity{
		{ItemID: po.Items[0].ID, Quantity: d("10")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusApproved, po.Status)

	lv := e.levels.Must(testOrg, testProd, "", testLocA)
	require.NotNil(t, lv)
	assert.True(t, lv.OnHand.Equal(d("10")))

	// Recibir la segunda línea completa: la orden pasa a received
	po, err = uc.Receive(context.Background(), testOrg, po.ID, []fulfillment.ItemQuantity{
		{ItemID: po.Items[1].ID, Quantity: d("5")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, po.Status)

	// Un movimiento stock_in por recepción, con el costo real de la línea
	movs, err := e.movements.ListByOrder(testOrg, entity.OrderTypePurchase, po.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeStockIn, movs[0].Type)
	assert.Equal(t, testLocA, movs[0].ToLocationID)
	assert.True(t, movs[0].UnitCost.Equal(d("100")))
}

func TestPurchaseOrder_RecibirSinAprobarFalla(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	po := createPO(t, e, fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("10"), UnitCost: d("100")})

	_, err := uc.Receive(context.Background(), testOrg, po.ID, []fulfillment.ItemQuantity{
		{ItemID: po.Items[0].ID, Quantity: d("10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPurchaseOrder_NoSePuedeCancelarRecibida(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	po := createPO(t, e, fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("2"), UnitCost: d("10")})

	_, err := uc.Approve(context.Background(), testOrg, po.ID)
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), testOrg, po.ID, []fulfillment.ItemQuantity{
		{ItemID: po.Items[0].ID, Quantity: d("2")},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), testOrg, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPurchaseOrder_NotFound(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	_, err := uc.Approve(context.Background(), testOrg, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseOrder_EventoDeAuditoriaConCantidades(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewPurchaseOrders(e.engine)
	po := createPO(t, e, fulfillment.PurchaseItemInput{ProductID: testProd, Quantity: d("10"), UnitCost: d("100")})

	_, err := uc.Approve(context.Background(), testOrg, po.ID)
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), testOrg, po.ID, []fulfillment.ItemQuantity{
		{ItemID: po.Items[0].ID, Quantity: d("10")},
	})
	require.NoError(t, err)

	require.Len(t, e.recorder.Events, 2)
	ev := e.recorder.Events[1]
	assert.Equal(t, "receive", ev.Action)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, ev.ToStatus)
	require.Len(t, ev.Items, 1)
	assert.True(t, ev.Items[0].OnHandBefore.IsZero())
	assert.True(t, ev.Items[0].OnHandAfter.Equal(d("10")))
}
