package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	SalesOrderStatusDraft     = "draft"
	SalesOrderStatusConfirmed = "confirmed"
	SalesOrderStatusShipped   = "shipped"
	SalesOrderStatusInvoiced  = "invoiced"
	SalesOrderStatusCancelled = "cancelled"
)

// SalesOrder orden de venta: draft → confirmed → shipped → invoiced | cancelled.
// Confirmar reserva stock por cada línea en su ubicación; despachar consume la
// reserva y descuenta on-hand; la orden llega a shipped solo con todas las
// líneas despachadas por completo.
type SalesOrder struct {
	ID             string
	OrganizationID string
	StoreID        string
	Number         string
	CustomerName   string
	Status         string
	Totals         OrderTotals
	Items          []*SalesOrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SalesOrderItem línea de venta. LocationID es la ubicación donde se reserva
// y de donde se despacha el stock de esta línea.
type SalesOrderItem struct {
	ID              string
	SalesOrderID    string
	ProductID       string
	VariantID       string
	LocationID      string
	QuantityOrdered decimal.Decimal
	QuantityShipped decimal.Decimal
	UnitPrice       decimal.Decimal
}

// FullyShipped indica si todas las líneas fueron despachadas en su totalidad.
func (so *SalesOrder) FullyShipped() bool {
	for _, it := range so.Items {
		if it.QuantityShipped.LessThan(it.QuantityOrdered) {
			return false
		}
	}
	return len(so.Items) > 0
}

// Item busca una línea por ID; nil si no existe.
func (so *SalesOrder) Item(itemID string) *SalesOrderItem {
	for _, it := range so.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
