package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado incremental (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedAverageFromMovements calcula el costo promedio ponderado sobre un
// histórico de movimientos de entrada, aplicando CostCalculator entrada por
// entrada: el resultado equivale a Σ(costo_unitario * cantidad) / Σ(cantidad).
// Ignora movimientos que no sean stock_in. Devuelve cero sin histórico de entradas.
func WeightedAverageFromMovements(movements []*entity.Movement) decimal.Decimal {
	avg := decimal.Zero
	qty := decimal.Zero
	for _, m := range movements {
		if m.Type != entity.MovementTypeStockIn {
			continue
		}
		avg = CostCalculator(qty, avg, m.Quantity, m.UnitCost)
		qty = qty.Add(m.Quantity)
	}
	return avg
}
