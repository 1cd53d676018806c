package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderadoIncremental(t *testing.T) {
	// Stock 10 @ 100 + entrada 10 @ 200 => promedio 150
	got := inventory.CostCalculator(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), "esperado 150, got %s", got)
}

func TestCostCalculator_SinStockDevuelveCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, d("50"))
	assert.True(t, got.IsZero())
}

func TestWeightedAverageFromMovements(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeStockIn, Quantity: d("10"), UnitCost: d("100")},
		{Type: entity.MovementTypeStockIn, Quantity: d("30"), UnitCost: d("200")},
		// no es entrada: se ignora
		{Type: entity.MovementTypeSale, Quantity: d("5"), UnitCost: d("999")},
	}
	// (10*100 + 30*200) / 40 = 175
	got := inventory.WeightedAverageFromMovements(movs)
	assert.True(t, got.Equal(d("175")), "esperado 175, got %s", got)
}

func TestWeightedAverageFromMovements_EquivaleAFormulaCerrada(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeStockIn, Quantity: d("4"), UnitCost: d("12.50")},
		{Type: entity.MovementTypeStockIn, Quantity: d("16"), UnitCost: d("10")},
		{Type: entity.MovementTypeStockIn, Quantity: d("5"), UnitCost: d("20")},
	}
	// (4*12.50 + 16*10 + 5*20) / 25 = 310/25 = 12.4
	got := inventory.WeightedAverageFromMovements(movs)
	assert.True(t, got.Equal(d("12.4")), "esperado 12.4, got %s", got)
}

func TestWeightedAverageFromMovements_SinEntradas(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeSale, Quantity: d("5"), UnitCost: d("999")},
	}
	assert.True(t, inventory.WeightedAverageFromMovements(movs).IsZero())
	assert.True(t, inventory.WeightedAverageFromMovements(nil).IsZero())
}
