package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de devolución.
const (
	ReturnOrderStatusDraft     = "draft"
	ReturnOrderStatusProcessed = "processed"
	ReturnOrderStatusCancelled = "cancelled"
)

// Disposiciones posibles al procesar una línea devuelta.
const (
	DispositionRestock  = "restock"   // vuelve al stock (stock_in, on-hand sube)
	DispositionWriteOff = "write_off" // se da de baja (damage, on-hand baja)
	DispositionRepair   = "repair"    // entra como reparado (adjustment, on-hand sube)
)

// ReturnOrder devolución de cliente: draft → processed | cancelled.
// Procesar despacha cada línea según la disposición elegida por el caller.
// Una devolución processed es terminal y nunca puede cancelarse.
type ReturnOrder struct {
	ID             string
	OrganizationID string
	StoreID        string
	Number         string
	SalesOrderID   string // orden de venta original, si aplica
	LocationID     string
	Status         string
	Reason         string
	Totals         OrderTotals
	Items          []*ReturnOrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReturnOrderItem línea devuelta. Disposition queda registrada al procesar.
type ReturnOrderItem struct {
	ID                string
	ReturnOrderID     string
	ProductID         string
	VariantID         string
	QuantityReturned  decimal.Decimal
	QuantityProcessed decimal.Decimal
	Disposition       string
	UnitPrice         decimal.Decimal
}

// FullyProcessed indica si todas las líneas devueltas fueron procesadas.
func (ro *ReturnOrder) FullyProcessed() bool {
	for _, it := range ro.Items {
		if it.QuantityProcessed.LessThan(it.QuantityReturned) {
			return false
		}
	}
	return len(ro.Items) > 0
}

// Item busca una línea por ID; nil si no existe.
func (ro *ReturnOrder) Item(itemID string) *ReturnOrderItem {
	for _, it := range ro.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
