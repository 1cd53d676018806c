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

// SalesOrders maneja el ciclo de vida de órdenes de venta:
// draft → confirmed → shipped → invoiced | cancelled.
type SalesOrders struct {
	engine *Engine
}

// NewSalesOrders construye el caso de uso.
func NewSalesOrders(engine *Engine) *SalesOrders {
	return &SalesOrders{engine: engine}
}

// SalesItemInput línea para crear una orden de venta. LocationID es la ubicación
// donde se reservará y despachará el stock.
type SalesItemInput struct {
	ProductID  string
	VariantID  string
	LocationID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// CreateSalesOrderInput entrada para crear una orden de venta en draft.
type CreateSalesOrderInput struct {
	OrganizationID string
	StoreID        string
	CustomerName   string
	Items          []SalesItemInput
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
}

// Create inserta la orden en draft. Sin efecto en el ledger hasta Confirm.
func (uc *SalesOrders) Create(ctx context.Context, in CreateSalesOrderInput) (*entity.SalesOrder, error) {
	if in.OrganizationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.LocationID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	order := &entity.SalesOrder{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		StoreID:        in.StoreID,
		CustomerName:   in.CustomerName,
		Status:         entity.SalesOrderStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		order.Items = append(order.Items, &entity.SalesOrderItem{
			ID:              uuid.New().String(),
			SalesOrderID:    order.ID,
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			LocationID:      it.LocationID,
			QuantityOrdered: it.Quantity,
			QuantityShipped: decimal.Zero,
			UnitPrice:       it.UnitPrice,
		})
		subtotal = subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}
	order.Totals = entity.OrderTotals{Subtotal: subtotal, Discount: in.Discount, Tax: in.Tax, Shipping: in.Shipping}
	order.Totals.Recalculate()

	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		number, err := nextOrderNumber(r.OrderNumbers, in.OrganizationID, entity.OrderTypeSales)
		if err != nil {
			return err
		}
		order.Number = number
		return r.SalesOrders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm transición draft → confirmed: reserva stock por cada línea en su
// ubicación. Si alguna línea no puede reservarse, toda la transacción falla y
// no queda ninguna reserva.
func (uc *SalesOrders) Confirm(ctx context.Context, orgID, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeSales, OrderID: id, Action: "confirm"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.SalesOrderStatusDraft); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.SalesOrderStatusConfirmed

		led := ledger.NewStockLedger(r.StockLevels)
		resMgr := ledger.NewReservationManager(led, r.Reservations)
		for _, item := range order.Items {
			scope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     item.LocationID,
			}
			if _, err := resMgr.Reserve(scope, item.QuantityOrdered, entity.OrderTypeSales, order.ID); err != nil {
				return err
			}
		}
		order.Status = entity.SalesOrderStatusConfirmed
		return r.SalesOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Ship registra un despacho (posiblemente parcial): por línea genera un movimiento
// sale, baja on-hand y libera la reserva correspondiente. La orden pasa a shipped
// solo cuando todas las líneas quedan despachadas por completo.
func (uc *SalesOrders) Ship(ctx context.Context, orgID, id string, shipments []ItemQuantity) (*entity.SalesOrder, error) {
	if len(shipments) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.SalesOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeSales, OrderID: id, Action: "ship"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.SalesOrderStatusConfirmed); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus = order.Number, order.Status

		led := ledger.NewStockLedger(r.StockLevels)
		movLog := ledger.NewMovementLog(r.Movements)
		resMgr := ledger.NewReservationManager(led, r.Reservations)
		costing := ledger.NewCosting(r.Movements)

		for _, sh := range shipments {
			item := order.Item(sh.ItemID)
			if item == nil {
				return domain.ErrNotFound
			}
			if !sh.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			scope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     item.LocationID,
			}
			unitCost, err := costing.WeightedAverageCost(orgID, item.ProductID, item.VariantID, item.LocationID)
			if err != nil {
				return err
			}
			before, err := onHandAt(r.StockLevels, scope)
			if err != nil {
				return err
			}
			lv, err := led.Adjust(scope, sh.Quantity.Neg(), decimal.Zero)
			if err != nil {
				return err
			}
			if _, err := movLog.Record(ledger.MovementRecord{
				Scope:           scope,
				Type:            entity.MovementTypeSale,
				FromLocationID:  item.LocationID,
				Quantity:        sh.Quantity,
				UnitCost:        unitCost,
				SourceOrderType: entity.OrderTypeSales,
				SourceOrderID:   order.ID,
				Reason:          "despacho de orden de venta " + order.Number,
			}); err != nil {
				return err
			}
			if err := resMgr.Release(scope, sh.Quantity, entity.OrderTypeSales, order.ID); err != nil {
				return err
			}
			item.QuantityShipped = item.QuantityShipped.Add(sh.Quantity)
			if err := r.SalesOrders.UpdateItemShipped(item.ID, item.QuantityShipped); err != nil {
				return err
			}
			ev.Items = append(ev.Items, captureChange(scope, sh.Quantity, before, lv.OnHand))
		}

		if order.FullyShipped() {
			order.Status = entity.SalesOrderStatusShipped
			if err := r.SalesOrders.UpdateStatus(order.ID, order.Status); err != nil {
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

// Invoice transición shipped → invoiced. Sin efecto en el ledger.
func (uc *SalesOrders) Invoice(ctx context.Context, orgID, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeSales, OrderID: id, Action: "invoice"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.SalesOrderStatusShipped); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.SalesOrderStatusInvoiced
		order.Status = entity.SalesOrderStatusInvoiced
		return r.SalesOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel transición draft|confirmed → cancelled: primero libera las reservas
// activas de la orden. No se permite cancelar órdenes shipped o invoiced.
func (uc *SalesOrders) Cancel(ctx context.Context, orgID, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeSales, OrderID: id, Action: "cancel"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(order.Status, entity.SalesOrderStatusDraft, entity.SalesOrderStatusConfirmed); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = order.Number, order.Status, entity.SalesOrderStatusCancelled

		led := ledger.NewStockLedger(r.StockLevels)
		resMgr := ledger.NewReservationManager(led, r.Reservations)
		if err := resMgr.ReleaseAllForOrder(orgID, entity.OrderTypeSales, order.ID); err != nil {
			return err
		}
		order.Status = entity.SalesOrderStatusCancelled
		return r.SalesOrders.UpdateStatus(order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve la orden con sus líneas.
func (uc *SalesOrders) Get(ctx context.Context, orgID, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByID(orgID, id)
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
func (uc *SalesOrders) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.SalesOrder, error) {
	var orders []*entity.SalesOrder
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		orders, err = r.SalesOrders.ListByOrganization(orgID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
