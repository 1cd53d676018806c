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

func createSO(t *testing.T, e *env, items ...fulfillment.SalesItemInput) *entity.SalesOrder {
	t.Helper()
	uc := fulfillment.NewSalesOrders(e.engine)
	so, err := uc.Create(context.Background(), fulfillment.CreateSalesOrderInput{
		OrganizationID: testOrg,
		CustomerName:   "Cliente SA",
		Items:          items,
	})
	require.NoError(t, err)
	return so
}

func TestSalesOrder_ConfirmarYDespachar(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("250"),
	})
	assert.True(t, strings.HasPrefix(so.Number, "ORD-"))

	// Confirmar reserva: available 10 -> 6, reserved 0 -> 4
	so, err := uc.Confirm(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusConfirmed, so.Status)
	lv := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lv.Available.Equal(d("6")))
	assert.True(t, lv.Reserved.Equal(d("4")))

	// Despachar todo: on_hand 10 -> 6, reserved -> 0, available -> 6
	so, err = uc.Ship(context.Background(), testOrg, so.ID, []fulfillment.ItemQuantity{
		{ItemID: so.Items[0].ID, Quantity: d("4")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusShipped, so.Status)

	lv = e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lv.OnHand.Equal(d("6")))
	assert.True(t, lv.Reserved.IsZero())
	assert.True(t, lv.Available.Equal(d("6")))

	// Un movimiento sale de cantidad 4
	movs, err := e.movements.ListByOrder(testOrg, entity.OrderTypeSales, so.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("4")))
	assert.Equal(t, testLocA, movs[0].FromLocationID)
	assert.Equal(t, 0, e.reservations.ActiveCount())
}

func TestSalesOrder_ConfirmarSinStockFalla(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("5"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("8"), UnitPrice: d("100"),
	})

	_, err := uc.Confirm(context.Background(), testOrg, so.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió: ni reserva ni estado
	assert.Empty(t, e.reservations.All)
	lv := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lv.Available.Equal(d("5")))
	got, err := uc.Get(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusDraft, got.Status)
}

func TestSalesOrder_DespachoParcialMantieneConfirmed(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("100"),
	})
	_, err := uc.Confirm(context.Background(), testOrg, so.ID)
	require.NoError(t, err)

	so, err = uc.Ship(context.Background(), testOrg, so.ID, []fulfillment.ItemQuantity{
		{ItemID: so.Items[0].ID, Quantity: d("2")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusConfirmed, so.Status, "despacho parcial no completa la orden")
}

func TestSalesOrder_CancelarLiberaReservas(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("100"),
	})
	_, err := uc.Confirm(context.Background(), testOrg, so.ID)
	require.NoError(t, err)

	so, err = uc.Cancel(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusCancelled, so.Status)
	assert.Equal(t, 0, e.reservations.ActiveCount())
	lv := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lv.Available.Equal(d("10")))
	assert.True(t, lv.Reserved.IsZero())
}

func TestSalesOrder_NoSePuedeCancelarDespachada(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("100"),
	})
	_, err := uc.Confirm(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	_, err = uc.Ship(context.Background(), testOrg, so.ID, []fulfillment.ItemQuantity{
		{ItemID: so.Items[0].ID, Quantity: d("4")},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), testOrg, so.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSalesOrder_FacturarSoloDesdeShipped(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("100"),
	})
	_, err := uc.Invoice(context.Background(), testOrg, so.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Confirm(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	_, err = uc.Ship(context.Background(), testOrg, so.ID, []fulfillment.ItemQuantity{
		{ItemID: so.Items[0].ID, Quantity: d("4")},
	})
	require.NoError(t, err)

	so, err = uc.Invoice(context.Background(), testOrg, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusInvoiced, so.Status)
}

func TestSalesOrder_DespacharDraftFalla(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewSalesOrders(e.engine)
	so := createSO(t, e, fulfillment.SalesItemInput{
		ProductID: testProd, LocationID: testLocA, Quantity: d("4"), UnitPrice: d("100"),
	})
	_, err := uc.Ship(context.Background(), testOrg, so.ID, []fulfillment.ItemQuantity{
		{ItemID: so.Items[0].ID, Quantity: d("4")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
