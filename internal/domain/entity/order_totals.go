package entity

import "github.com/shopspring/decimal"

// OrderTotals agrupa los montos monetarios comunes a toda orden de fulfillment.
type OrderTotals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Recalculate recompone el total general a partir de los componentes.
func (t *OrderTotals) Recalculate() {
	t.GrandTotal = t.Subtotal.Sub(t.Discount).Add(t.Tax).Add(t.Shipping)
}
