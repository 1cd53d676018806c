package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger/ledgertest"
)

const (
	testOrg  = "org-1"
	testProd = "prod-1"
	testVar  = ""
	testLocA = "loc-a"
	testLocB = "loc-b"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func scopeA() ledger.Scope {
	return ledger.Scope{OrganizationID: testOrg, ProductID: testProd, VariantID: testVar, LocationID: testLocA}
}

func TestAdjust_CreaNivelPerezosamente(t *testing.T) {
	levels := ledgertest.NewFakeStockLevels()
	led := ledger.NewStockLedger(levels)

	// Primer movimiento hacia una ubicación sin fila previa
	lv, err := led.Adjust(scopeA(), d("10"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, lv.OnHand.Equal(d("10")))
	assert.True(t, lv.Available.Equal(d("10")))
	assert.True(t, lv.Reserved.IsZero())
	require.NotNil(t, levels.Must(testOrg, testProd, testVar, testLocA))
}

func TestAdjust_RecorteACeroEnUnderflow(t *testing.T) {
	levels := ledgertest.NewFakeStockLevels()
	levels.Seed(testOrg, testProd, testVar, testLocA, d("3"), decimal.Zero)
	led := ledger.NewStockLedger(levels)

	// Restar más de lo que hay no falla: se recorta a cero (comportamiento documentado)
	lv, err := led.Adjust(scopeA(), d("-10"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, lv.OnHand.IsZero())
	assert.True(t, lv.Reserved.IsZero())
	assert.True(t, lv.Available.IsZero())
}

func TestAdjust_InvarianteNoNegativa(t *testing.T) {
	levels := ledgertest.NewFakeStockLevels()
	levels.Seed(testOrg, testProd, testVar, testLocA, d("5"), d("2"))
	led := ledger.NewStockLedger(levels)

	secuencias := [][2]string{
		{"-10", "0"}, {"0", "-10"}, {"4", "9"}, {"-1", "-1"},
	}
	for _, s := range secuencias {
		lv, err := led.Adjust(scopeA(), d(s[0]), d(s[1]))
		require.NoError(t, err)
		assert.False(t, lv.OnHand.IsNegative())
		assert.False(t, lv.Reserved.IsNegative())
		assert.False(t, lv.Available.IsNegative())
	}
}

func TestAvailability_FiltraSinDisponibilidad(t *testing.T) {
	levels := ledgertest.NewFakeStockLevels()
	levels.Seed(testOrg, testProd, testVar, testLocA, d("5"), decimal.Zero)
	levels.Seed(testOrg, testProd, testVar, testLocB, d("4"), d("4")) // available = 0
	led := ledger.NewStockLedger(levels)

	avail, err := led.Availability(testOrg, testProd, testVar, "")
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, testLocA, avail[0].LocationID)
	assert.True(t, avail[0].Available.Equal(d("5")))
}
