package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderStatusDraft     = "draft"
	PurchaseOrderStatusApproved  = "approved"
	PurchaseOrderStatusReceived  = "received"
	PurchaseOrderStatusCancelled = "cancelled"
)

// PurchaseOrder orden de compra a proveedor: draft → approved → received | cancelled.
// Recibir mercancía genera movimientos stock_in hacia LocationID; la orden llega a
// received solo cuando todos los items tienen recibido >= pedido.
type PurchaseOrder struct {
	ID             string
	OrganizationID string
	StoreID        string
	Number         string
	SupplierName   string
	LocationID     string
	Status         string
	Totals         OrderTotals
	Items          []*PurchaseOrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseOrderItem línea de una orden de compra. Pertenece a la orden
// (se elimina junto con ella, nunca de forma independiente).
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	VariantID        string
	QuantityOrdered  decimal.Decimal
	QuantityReceived decimal.Decimal
	UnitCost         decimal.Decimal
}

// FullyReceived indica si todos los items fueron recibidos en su totalidad.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if it.QuantityReceived.LessThan(it.QuantityOrdered) {
			return false
		}
	}
	return len(po.Items) > 0
}

// Item busca una línea por ID; nil si no existe.
func (po *PurchaseOrder) Item(itemID string) *PurchaseOrderItem {
	for _, it := range po.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
