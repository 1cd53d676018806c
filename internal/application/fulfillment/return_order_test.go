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

func createReturn(t *testing.T, e *env, items ...fulfillment.ReturnItemInput) *entity.ReturnOrder {
	t.Helper()
	uc := fulfillment.NewReturnOrders(e.engine)
	ro, err := uc.Create(context.Background(), fulfillment.CreateReturnOrderInput{
		OrganizationID: testOrg,
		LocationID:     testLocA,
		Reason:         "devolución de cliente",
		Items:          items,
	})
	require.NoError(t, err)
	return ro
}

func TestReturnOrder_ProcesarPorDisposicion(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewReturnOrders(e.engine)
	e.levels.Seed(testOrg, testProd, "", testLocA, d("10"), d("0"))

	ro := createReturn(t, e,
		fulfillment.ReturnItemInput{ProductID: testProd, Quantity: d("3"), UnitPrice: d("100")},
		fulfillment.ReturnItemInput{ProductID: "prod-2", Quantity: d("2"), UnitPrice: d("50")},
		fulfillment.ReturnItemInput{ProductID: "prod-3", Quantity: d("1"), UnitPrice: d("80")},
	)
	assert.True(t, strings.HasPrefix(ro.Number, "SR-"))

	ro, err := uc.Process(context.Background(), testOrg, ro.ID, []fulfillment.ItemDisposition{
		{ItemID: ro.Items[0].ID, Quantity: d("3"), Disposition: entity.DispositionRestock},
		{ItemID: ro.Items[1].ID, Quantity: d("2"), Disposition: entity.DispositionWriteOff},
		{ItemID: ro.Items[2].ID, Quantity: d("1"), Disposition: entity.DispositionRepair},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnOrderStatusProcessed, ro.Status)

	// restock: on-hand sube
	lv := e.levels.Must(testOrg, testProd, "", testLocA)
	assert.True(t, lv.OnHand.Equal(d("13")))
	// write_off sobre stock inexistente: clamp a cero, nunca negativo
	lv2 := e.levels.Must(testOrg, "prod-2", "", testLocA)
	assert.True(t, lv2.OnHand.IsZero())
	// repair: reingresa
	lv3 := e.levels.Must(testOrg, "prod-3", "", testLocA)
	assert.True(t, lv3.OnHand.Equal(d("1")))

	movs, err := e.movements.ListByOrder(testOrg, entity.OrderTypeReturn, ro.ID)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementTypeStockIn, movs[0].Type)
	assert.Equal(t, entity.MovementTypeDamage, movs[1].Type)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[2].Type)

	assert.Equal(t, entity.DispositionRestock, ro.Items[0].Disposition)
	assert.Equal(t, entity.DispositionWriteOff, ro.Items[1].Disposition)
	assert.Equal(t, entity.DispositionRepair, ro.Items[2].Disposition)
}

func TestReturnOrder_ProcesoParcialMantieneDraft(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewReturnOrders(e.engine)

	ro := createReturn(t, e,
		fulfillment.ReturnItemInput{ProductID: testProd, Quantity: d("4"), UnitPrice: d("100")},
	)
	ro, err := uc.Process(context.Background(), testOrg, ro.ID, []fulfillment.ItemDisposition{
		{ItemID: ro.Items[0].ID, Quantity: d("2"), Disposition: entity.DispositionRestock},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnOrderStatusDraft, ro.Status, "proceso parcial no completa la devolución")
}

func TestReturnOrder_DisposicionInvalida(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewReturnOrders(e.engine)
	ro := createReturn(t, e,
		fulfillment.ReturnItemInput{ProductID: testProd, Quantity: d("1"), UnitPrice: d("10")},
	)
	_, err := uc.Process(context.Background(), testOrg, ro.ID, []fulfillment.ItemDisposition{
		{ItemID: ro.Items[0].ID, Quantity: d("1"), Disposition: "melt"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturnOrder_ProcesadaNoSeCancela(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewReturnOrders(e.engine)
	ro := createReturn(t, e,
		fulfillment.ReturnItemInput{ProductID: testProd, Quantity: d("1"), UnitPrice: d("10")},
	)
	_, err := uc.Process(context.Background(), testOrg, ro.ID, []fulfillment.ItemDisposition{
		{ItemID: ro.Items[0].ID, Quantity: d("1"), Disposition: entity.DispositionRestock},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), testOrg, ro.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReturnOrder_CancelarDesdeDraft(t *testing.T) {
	e := newEnv()
	uc := fulfillment.NewReturnOrders(e.engine)
	ro := createReturn(t, e,
		fulfillment.ReturnItemInput{ProductID: testProd, Quantity: d("1"), UnitPrice: d("10")},
	)
	ro, err := uc.Cancel(context.Background(), testOrg, ro.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnOrderStatusCancelled, ro.Status)
}
