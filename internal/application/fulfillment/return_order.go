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

// ReturnOrders maneja el ciclo de vida de devoluciones: draft → processed | cancelled.
type ReturnOrders struct {
	engine *Engine
}

// NewReturnOrders construye el caso de uso.
func NewReturnOrders(engine *Engine) *ReturnOrders {
	return &ReturnOrders{engine: engine}
}

// ReturnItemInput línea para crear una devolución.
type ReturnItemInput struct {
	ProductID string
	VariantID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateReturnOrderInput entrada para crear una devolución en draft.
type CreateReturnOrderInput struct {
	OrganizationID string
	StoreID        string
	SalesOrderID   string
	LocationID     string
	Reason         string
	Items          []ReturnItemInput
}

// ItemDisposition cantidad y disposición elegida por el caller para procesar una línea.
type ItemDisposition struct {
	ItemID      string
	Quantity    decimal.Decimal
	Disposition string // restock, write_off, repair
}

// Create inserta la devolución en draft. Sin efecto en el ledger hasta Process.
func (uc *ReturnOrders) Create(ctx context.Context, in CreateReturnOrderInput) (*entity.ReturnOrder, error) {
	if in.OrganizationID == "" || in.LocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	order := &entity.ReturnOrder{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		StoreID:        in.StoreID,
		SalesOrderID:   in.SalesOrderID,
		LocationID:     in.LocationID,
		Status:         entity.ReturnOrderStatusDraft,
		Reason:         in.Reason,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		order.Items = append(order.Items, &entity.ReturnOrderItem{
			ID:                uuid.New().String(),
			ReturnOrderID:     order.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityReturned:  it.Quantity,
			QuantityProcessed: decimal.Zero,
			UnitPrice:         it.UnitPrice,
		})
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}
	order.Totals = entity.OrderTotals{Subtotal: subtotal}
	order.Totals.Recalculate()

	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		number, err := nextOrderNumber(r.OrderNumbers, in.OrganizationID, entity.OrderTypeReturn)
		if err != nil {
			return err
		}
		order.Number = number
		return r.ReturnOrders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Process despacha cada línea según su disposición: restock vuelve al stock
// (stock_in), write_off lo da de baja (damage) y repair lo reingresa como
// ajuste (adjustment). La devolución pasa a processed solo con todas las
// líneas procesadas por completo; processed es terminal.
func (uc *ReturnOrders) Process(ctx context.Context, orgID, id string, items []ItemDisposition) (*entity.ReturnOrder, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.ReturnOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeReturn, OrderID: id, Action: "process"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.ReturnOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.ReturnOrderStatusDraft); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus = order.Number, order.Status

		led := ledger.NewStockLedger(r.StockLevels)
		movLog := ledger.NewMovementLog(r.Movements)
		costing := ledger.NewCosting(r.Movements)

		for _, disp := range items {
			item := order.Item(disp.ItemID)
			if item == nil {
				return domain.ErrNotFound
			}
			if !disp.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			scope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     order.LocationID,
			}
			unitCost, err := costing.WeightedAverageCost(orgID, item.ProductID, item.VariantID, "")
			if err != nil {
				return err
			}
			before, err := onHandAt(r.StockLevels, scope)
			if err != nil {
				return err
			}

			rec := ledger.MovementRecord{
				Scope:           scope,
				Quantity:        disp.Quantity,
				UnitCost:        unitCost,
				SourceOrderType: entity.OrderTypeReturn,
				SourceOrderID:   order.ID,
			}
			var delta decimal.Decimal
			switch disp.Disposition {
			case entity.DispositionRestock:
				rec.Type = entity.MovementTypeStockIn
				rec.ToLocationID = order.LocationID
				rec.Reason = "devolución a stock " + order.Number
				delta = disp.Quantity
			case entity.DispositionWriteOff:
				rec.Type = entity.MovementTypeDamage
				rec.FromLocationID = order.LocationID
				rec.Reason = "baja por daño " + order.Number
				delta = disp.Quantity.Neg()
			case entity.DispositionRepair:
				rec.Type = entity.MovementTypeAdjustment
				rec.ToLocationID = order.LocationID
				rec.Reason = "reingreso tras reparación " + order.Number
				delta = disp.Quantity
			default:
				return domain.ErrInvalidInput
			}

			lv, err := led.Adjust(scope, delta, decimal.Zero)
			if err != nil {
				return err
			}
			if _, err := movLog.Record(rec); err != nil {
				return err
			}
			item.QuantityProcessed = item.QuantityProcessed.Add(disp.Quantity)
			item.Disposition = disp.Disposition
			if err := r.ReturnOrders.UpdateItemProcessed(item.ID, item.QuantityProcessed, item.Disposition); err != nil {
				return err
			}
			ev.Items = append(ev.Items, captureChange(scope, disp.Quantity, before, lv.OnHand))
		}

		if order.FullyProcessed() {
			order.Status = entity.ReturnOrderStatusProcessed
			if err := r.ReturnOrders.UpdateStatus(order.ID, order.Status); err != nil {
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

// Cancel transición draft → cancelled. Una devolución processed nunca puede cancelarse.
func (uc *ReturnOrders) Cancel(ctx context.Context, orgID, id string) (*entity.ReturnOrder, error) {
	var order *entity.ReturnOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeReturn, OrderID: id, Action: "cancel"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.ReturnOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.ReturnOrderStatusDraft); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.ReturnOrderStatusCancelled
		order.Status = entity.ReturnOrderStatusCancelled
		return r.ReturnOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve la devolución con sus líneas.
func (uc *ReturnOrders) Get(ctx context.Context, orgID, id string) (*entity.ReturnOrder, error) {
	var order *entity.ReturnOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		order, err = r.ReturnOrders.GetByID(orgID, id)
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

// List devuelve cabeceras de devoluciones de la organización, paginadas.
func (uc *ReturnOrders) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.ReturnOrder, error) {
	var orders []*entity.ReturnOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		orders, err = r.ReturnOrders.ListByOrganization(orgID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
