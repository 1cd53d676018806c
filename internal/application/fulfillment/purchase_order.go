package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// PurchaseOrders maneja el ciclo de vida de órdenes de compra:
// draft → approved → received | cancelled.
type PurchaseOrders struct {
	engine *Engine
}

// NewPurchaseOrders construye el caso de uso.
func NewPurchaseOrders(engine *Engine) *PurchaseOrders {
	return &PurchaseOrders{engine: engine}
}

// PurchaseItemInput línea para crear una orden de compra.
type PurchaseItemInput struct {
	ProductID string
	VariantID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreatePurchaseOrderInput entrada para crear una orden de compra en draft.
type CreatePurchaseOrderInput struct {
	OrganizationID string
	StoreID        string
	SupplierName   string
	LocationID     string
	Items          []PurchaseItemInput
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
}

// Create inserta la orden en draft con numeración transaccional. Sin efecto en el ledger.
func (uc *PurchaseOrders) Create(ctx context.Context, in CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if in.OrganizationID == "" || in.LocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		StoreID:        in.StoreID,
		SupplierName:   in.SupplierName,
		LocationID:     in.LocationID,
		Status:         entity.PurchaseOrderStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		order.Items = append(order.Items, &entity.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  order.ID,
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			QuantityOrdered:  it.Quantity,
			QuantityReceived: decimal.Zero,
			UnitCost:         it.UnitCost,
		})
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitCost))
	}
	order.Totals = entity.OrderTotals{Subtotal: subtotal, Discount: in.Discount, Tax: in.Tax, Shipping: in.Shipping}
	order.Totals.Recalculate()

	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		number, err := nextOrderNumber(r.OrderNumbers, in.OrganizationID, entity.OrderTypePurchase)
		if err != nil {
			return err
		}
		order.Number = number
		return r.PurchaseOrders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Approve transición draft → approved. Sin efecto en el ledger.
func (uc *PurchaseOrders) Approve(ctx context.Context, orgID, id string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypePurchase, OrderID: id, Action: "approve"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.PurchaseOrderStatusDraft); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.PurchaseOrderStatusApproved
		order.Status = entity.PurchaseOrderStatusApproved
		return r.PurchaseOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Receive registra una recepción (posiblemente parcial): por línea recibida genera
// un movimiento stock_in hacia la ubicación de la orden y sube on-hand. La orden
// pasa a received solo cuando todas las líneas alcanzan recibido >= pedido; si no,
// sigue en approved.
func (uc *PurchaseOrders) Receive(ctx context.Context, orgID, id string, receipts []ItemQuantity) (*entity.PurchaseOrder, error) {
	if len(receipts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.PurchaseOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypePurchase, OrderID: id, Action: "receive"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.PurchaseOrderStatusApproved); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus = order.Number, order.Status

		led := ledger.NewStockLedger(r.StockLevels)
		movLog := ledger.NewMovementLog(r.Movements)

		for _, rec := range receipts {
			item := order.Item(rec.ItemID)
			if item == nil {
				return domain.ErrNotFound
			}
			if !rec.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			scope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     order.LocationID,
			}
			before, err := onHandAt(r.StockLevels, scope)
			if err != nil {
				return err
			}
			lv, err := led.Adjust(scope, rec.Quantity, decimal.Zero)
			if err != nil {
				return err
			}
			if _, err := movLog.Record(ledger.MovementRecord{
				Scope:           scope,
				Type:            entity.MovementTypeStockIn,
				ToLocationID:    order.LocationID,
				Quantity:        rec.Quantity,
				UnitCost:        item.UnitCost,
				SourceOrderType: entity.OrderTypePurchase,
				SourceOrderID:   order.ID,
				Reason:          "recepción de orden de compra " + order.Number,
			}); err != nil {
				return err
			}
			item.QuantityReceived = item.QuantityReceived.Add(rec.Quantity)
			if err := r.PurchaseOrders.UpdateItemReceived(item.ID, item.QuantityReceived); err != nil {
				return err
			}
			ev.Items = append(ev.Items, captureChange(scope, rec.Quantity, before, lv.OnHand))
		}

		if order.FullyReceived() {
			order.Status = entity.PurchaseOrderStatusReceived
			if err := r.PurchaseOrders.UpdateStatus(order.ID, order.Status); err != nil {
				return err
			}
		}
		ev.ToStatus = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel transición draft|approved → cancelled. Una orden received no puede cancelarse.
func (uc *PurchaseOrders) Cancel(ctx context.Context, orgID, id string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypePurchase, OrderID: id, Action: "cancel"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.PurchaseOrderStatusDraft, entity.PurchaseOrderStatusApproved); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.PurchaseOrderStatusCancelled
		order.Status = entity.PurchaseOrderStatusCancelled
		return r.PurchaseOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve la orden con sus líneas.
func (uc *PurchaseOrders) Get(ctx context.Context, orgID, id string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByID(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List devuelve cabeceras de órdenes de la organización, paginadas.
func (uc *PurchaseOrders) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var orders []*entity.PurchaseOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		orders, err = r.PurchaseOrders.ListByOrganization(orgID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
