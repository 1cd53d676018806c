package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

func TestWeightedAverageCost_UsaCostoRealDeEntradas(t *testing.T) {
	movs := ledgertest.NewFakeMovements()
	costing := ledger.NewCosting(movs)

	require.NoError(t, movs.Create(&entity.Movement{
		OrganizationID: testOrg, ProductID: testProd, ToLocationID: testLocA,
		Type: entity.MovementTypeStockIn, Quantity: d("10"), UnitCost: d("100"),
	}))
	require.NoError(t, movs.Create(&entity.Movement{
		OrganizationID: testOrg, ProductID: testProd, ToLocationID: testLocA,
		Type: entity.MovementTypeStockIn, Quantity: d("30"), UnitCost: d("200"),
	}))
	// Una venta no afecta el promedio de entradas
	require.NoError(t, movs.Create(&entity.Movement{
		OrganizationID: testOrg, ProductID: testProd, FromLocationID: testLocA,
		Type: entity.MovementTypeSale, Quantity: d("5"), UnitCost: d("175"),
	}))

	got, err := costing.WeightedAverageCost(testOrg, testProd, testVar, testLocA)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("175")), "esperado 175, got %s", got)
}

func TestWeightedAverageCost_SinHistoricoDevuelveCero(t *testing.T) {
	costing := ledger.NewCosting(ledgertest.NewFakeMovements())
	got, err := costing.WeightedAverageCost(testOrg, testProd, testVar, "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
