package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// OrderTotalsDTO montos monetarios de una orden.
type OrderTotalsDTO struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func totalsDTO(t entity.OrderTotals) OrderTotalsDTO {
	return OrderTotalsDTO{
		Subtotal:   t.Subtotal,
		Discount:   t.Discount,
		Tax:        t.Tax,
		Shipping:   t.Shipping,
		GrandTotal: t.GrandTotal,
	}
}

// ItemQuantityRequest línea de una acción parcial (recepción, despacho, llegada).
type ItemQuantityRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToItemQuantities convierte el body en las entradas del caso de uso.
func ToItemQuantities(reqs []ItemQuantityRequest) []fulfillment.ItemQuantity {
	out := make([]fulfillment.ItemQuantity, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, fulfillment.ItemQuantity{ItemID: r.ItemID, Quantity: r.Quantity})
	}
	return out
}

// ---- Órdenes de compra ----

// PurchaseItemRequest línea para crear una orden de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	StoreID      string                `json:"store_id,omitempty"`
	SupplierName string                `json:"supplier_name"`
	LocationID   string                `json:"location_id"`
	Items        []PurchaseItemRequest `json:"items"`
	Discount     decimal.Decimal       `json:"discount"`
	Tax          decimal.Decimal       `json:"tax"`
	Shipping     decimal.Decimal       `json:"shipping"`
}

// ToInput arma la entrada del caso de uso con la organización del contexto.
func (r CreatePurchaseOrderRequest) ToInput(orgID string) fulfillment.CreatePurchaseOrderInput {
	in := fulfillment.CreatePurchaseOrderInput{
		OrganizationID: orgID,
		StoreID:        r.StoreID,
		SupplierName:   r.SupplierName,
		LocationID:     r.LocationID,
		Discount:       r.Discount,
		Tax:            r.Tax,
		Shipping:       r.Shipping,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, fulfillment.PurchaseItemInput{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	return in
}

// PurchaseOrderItemDTO línea de orden de compra en respuestas.
type PurchaseOrderItemDTO struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	VariantID        string          `json:"variant_id,omitempty"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderDTO orden de compra en respuestas.
type PurchaseOrderDTO struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"number"`
	StoreID      string                 `json:"store_id,omitempty"`
	SupplierName string                 `json:"supplier_name"`
	LocationID   string                 `json:"location_id"`
	Status       string                 `json:"status"`
	Totals       OrderTotalsDTO         `json:"totals"`
	Items        []PurchaseOrderItemDTO `json:"items,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// FromPurchaseOrder mapea la entidad a su DTO de respuesta.
func FromPurchaseOrder(po *entity.PurchaseOrder) PurchaseOrderDTO {
	out := PurchaseOrderDTO{
		ID:           po.ID,
		Number:       po.Number,
		StoreID:      po.StoreID,
		SupplierName: po.SupplierName,
		LocationID:   po.LocationID,
		Status:       po.Status,
		Totals:       totalsDTO(po.Totals),
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
	for _, it := range po.Items {
		out.Items = append(out.Items, PurchaseOrderItemDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         it.UnitCost,
		})
	}
	return out
}

// ---- Órdenes de venta ----

// SalesItemRequest línea para crear una orden de venta.
type SalesItemRequest struct {
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id,omitempty"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	StoreID      string             `json:"store_id,omitempty"`
	CustomerName string             `json:"customer_name"`
	Items        []SalesItemRequest `json:"items"`
	Discount     decimal.Decimal    `json:"discount"`
	Tax          decimal.Decimal    `json:"tax"`
	Shipping     decimal.Decimal    `json:"shipping"`
}

// ToInput arma la entrada del caso de uso con la organización del contexto.
func (r CreateSalesOrderRequest) ToInput(orgID string) fulfillment.CreateSalesOrderInput {
	in := fulfillment.CreateSalesOrderInput{
		OrganizationID: orgID,
		StoreID:        r.StoreID,
		CustomerName:   r.CustomerName,
		Discount:       r.Discount,
		Tax:            r.Tax,
		Shipping:       r.Shipping,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, fulfillment.SalesItemInput{
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			LocationID: it.LocationID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	return in
}

// SalesOrderItemDTO línea de orden de venta en respuestas.
type SalesOrderItemDTO struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	LocationID      string          `json:"location_id"`
	QuantityOrdered decimal.Decimal `json:"quantity_ordered"`
	QuantityShipped decimal.Decimal `json:"quantity_shipped"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// SalesOrderDTO orden de venta en respuestas.
type SalesOrderDTO struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	StoreID      string              `json:"store_id,omitempty"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	Totals       OrderTotalsDTO      `json:"totals"`
	Items        []SalesOrderItemDTO `json:"items,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// FromSalesOrder mapea la entidad a su DTO de respuesta.
func FromSalesOrder(so *entity.SalesOrder) SalesOrderDTO {
	out := SalesOrderDTO{
		ID:           so.ID,
		Number:       so.Number,
		StoreID:      so.StoreID,
		CustomerName: so.CustomerName,
		Status:       so.Status,
		Totals:       totalsDTO(so.Totals),
		CreatedAt:    so.CreatedAt,
		UpdatedAt:    so.UpdatedAt,
	}
	for _, it := range so.Items {
		out.Items = append(out.Items, SalesOrderItemDTO{
			ID:              it.ID,
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			LocationID:      it.LocationID,
			QuantityOrdered: it.QuantityOrdered,
			QuantityShipped: it.QuantityShipped,
			UnitPrice:       it.UnitPrice,
		})
	}
	return out
}

// ---- Traslados ----

// TransferItemRequest línea para crear un traslado.
type TransferItemRequest struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateStockTransferRequest body para POST /api/stock-transfers.
type CreateStockTransferRequest struct {
	StoreID        string                `json:"store_id,omitempty"`
	FromLocationID string                `json:"from_location_id"`
	ToLocationID   string                `json:"to_location_id"`
	Notes          string                `json:"notes,omitempty"`
	Items          []TransferItemRequest `json:"items"`
}

// ToInput arma la entrada del caso de uso con la organización del contexto.
func (r CreateStockTransferRequest) ToInput(orgID string) fulfillment.CreateStockTransferInput {
	in := fulfillment.CreateStockTransferInput{
		OrganizationID: orgID,
		StoreID:        r.StoreID,
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		Notes:          r.Notes,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, fulfillment.TransferItemInput{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return in
}

// StockTransferItemDTO línea de traslado en respuestas.
type StockTransferItemDTO struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
}

// StockTransferDTO traslado en respuestas.
type StockTransferDTO struct {
	ID             string                 `json:"id"`
	Number         string                 `json:"number"`
	StoreID        string                 `json:"store_id,omitempty"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	Items          []StockTransferItemDTO `json:"items,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// FromStockTransfer mapea la entidad a su DTO de respuesta.
func FromStockTransfer(st *entity.StockTransfer) StockTransferDTO {
	out := StockTransferDTO{
		ID:             st.ID,
		Number:         st.Number,
		StoreID:        st.StoreID,
		FromLocationID: st.FromLocationID,
		ToLocationID:   st.ToLocationID,
		Status:         st.Status,
		Notes:          st.Notes,
		CreatedAt:      st.CreatedAt,
		UpdatedAt:      st.UpdatedAt,
	}
	for _, it := range st.Items {
		out.Items = append(out.Items, StockTransferItemDTO{
			ID:                it.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityRequested: it.QuantityRequested,
			QuantityReceived:  it.QuantityReceived,
		})
	}
	return out
}

// ---- Devoluciones ----

// ReturnItemRequest línea para crear una devolución.
type ReturnItemRequest struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateReturnOrderRequest body para POST /api/return-orders.
type CreateReturnOrderRequest struct {
	StoreID      string              `json:"store_id,omitempty"`
	SalesOrderID string              `json:"sales_order_id,omitempty"`
	LocationID   string              `json:"location_id"`
	Reason       string              `json:"reason,omitempty"`
	Items        []ReturnItemRequest `json:"items"`
}

// ToInput arma la entrada del caso de uso con la organización del contexto.
func (r CreateReturnOrderRequest) ToInput(orgID string) fulfillment.CreateReturnOrderInput {
	in := fulfillment.CreateReturnOrderInput{
		OrganizationID: orgID,
		StoreID:        r.StoreID,
		SalesOrderID:   r.SalesOrderID,
		LocationID:     r.LocationID,
		Reason:         r.Reason,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, fulfillment.ReturnItemInput{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return in
}

// ItemDispositionRequest línea a procesar con su disposición.
type ItemDispositionRequest struct {
	ItemID      string          `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Disposition string          `json:"disposition"` // restock, write_off, repair
}

// ToItemDispositions convierte el body en las entradas del caso de uso.
func ToItemDispositions(reqs []ItemDispositionRequest) []fulfillment.ItemDisposition {
	out := make([]fulfillment.ItemDisposition, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, fulfillment.ItemDisposition{
			ItemID:      r.ItemID,
			Quantity:    r.Quantity,
			Disposition: r.Disposition,
		})
	}
	return out
}

// ReturnOrderItemDTO línea de devolución en respuestas.
type ReturnOrderItemDTO struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	QuantityReturned  decimal.Decimal `json:"quantity_returned"`
	QuantityProcessed decimal.Decimal `json:"quantity_processed"`
	Disposition       string          `json:"disposition,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

// ReturnOrderDTO devolución en respuestas.
type ReturnOrderDTO struct {
	ID           string               `json:"id"`
	Number       string               `json:"number"`
	StoreID      string               `json:"store_id,omitempty"`
	SalesOrderID string               `json:"sales_order_id,omitempty"`
	LocationID   string               `json:"location_id"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	Totals       OrderTotalsDTO       `json:"totals"`
	Items        []ReturnOrderItemDTO `json:"items,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// FromReturnOrder mapea la entidad a su DTO de respuesta.
func FromReturnOrder(ro *entity.ReturnOrder) ReturnOrderDTO {
	out := ReturnOrderDTO{
		ID:           ro.ID,
		Number:       ro.Number,
		StoreID:      ro.StoreID,
		SalesOrderID: ro.SalesOrderID,
		LocationID:   ro.LocationID,
		Status:       ro.Status,
		Reason:       ro.Reason,
		Totals:       totalsDTO(ro.Totals),
		CreatedAt:    ro.CreatedAt,
		UpdatedAt:    ro.UpdatedAt,
	}
	for _, it := range ro.Items {
		out.Items = append(out.Items, ReturnOrderItemDTO{
			ID:                it.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityReturned:  it.QuantityReturned,
			QuantityProcessed: it.QuantityProcessed,
			Disposition:       it.Disposition,
			UnitPrice:         it.UnitPrice,
		})
	}
	return out
}
