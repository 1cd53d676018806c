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

// StockTransfers maneja el ciclo de vida de traslados entre ubicaciones:
// draft → in_transit → completed | cancelled.
type StockTransfers struct {
	engine *Engine
}

// NewStockTransfers construye el caso de uso.
func NewStockTransfers(engine *Engine) *StockTransfers {
	return &StockTransfers{engine: engine}
}

// TransferItemInput línea para crear un traslado.
type TransferItemInput struct {
	ProductID string
	VariantID string
	Quantity  decimal.Decimal
}

// CreateStockTransferInput entrada para crear un traslado en draft.
type CreateStockTransferInput struct {
	OrganizationID string
	StoreID        string
	FromLocationID string
	ToLocationID   string
	Notes          string
	Items          []TransferItemInput
}

// Create valida origen != destino y que la disponibilidad en origen cubra cada
// línea; cualquier falla corta antes de escribir fila alguna. Inserta en draft.
func (uc *StockTransfers) Create(ctx context.Context, in CreateStockTransferInput) (*entity.StockTransfer, error) {
	if in.OrganizationID == "" || in.FromLocationID == "" || in.ToLocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrConflictingLocations
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	transfer := &entity.StockTransfer{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		StoreID:        in.StoreID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Status:         entity.StockTransferStatusDraft,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range in.Items {
		transfer.Items = append(transfer.Items, &entity.StockTransferItem{
			ID:                uuid.New().String(),
			StockTransferID:   transfer.ID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			QuantityRequested: it.Quantity,
			QuantityReceived:  decimal.Zero,
		})
	}

	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		// Validación de cobertura en origen antes de cualquier escritura
		for _, it := range transfer.Items {
			lv, err := r.StockLevels.Get(in.OrganizationID, it.ProductID, it.VariantID, in.FromLocationID)
			if err != nil {
				return err
			}
			if lv.Available.LessThan(it.QuantityRequested) {
				return domain.ErrInsufficientStock
			}
		}
		number, err := nextOrderNumber(r.OrderNumbers, in.OrganizationID, entity.OrderTypeTransfer)
		if err != nil {
			return err
		}
		transfer.Number = number
		return r.StockTransfers.Create(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Approve transición draft → in_transit: reserva cada línea en la ubicación origen.
func (uc *StockTransfers) Approve(ctx context.Context, orgID, id string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeTransfer, OrderID: id, Action: "approve"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		transfer, err = r.StockTransfers.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(transfer.Status, entity.StockTransferStatusDraft); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = transfer.Number, transfer.Status, entity.StockTransferStatusInTransit

		led := ledger.NewStockLedger(r.StockLevels)
		resMgr := ledger.NewReservationManager(led, r.Reservations)
		for _, item := range transfer.Items {
			scope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     transfer.FromLocationID,
			}
			if _, err := resMgr.Reserve(scope, item.QuantityRequested, entity.OrderTypeTransfer, transfer.ID); err != nil {
				return err
			}
		}
		transfer.Status = entity.StockTransferStatusInTransit
		return r.StockTransfers.UpdateStatus(transfer.ID, transfer.Status)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Complete registra llegadas (posiblemente parciales): por línea genera dos
// movimientos (salida del origen, entrada al destino), mueve on-hand entre las
// dos ubicaciones y libera la reserva del origen. El traslado pasa a completed
// solo cuando cada línea alcanza recibido >= solicitado.
func (uc *StockTransfers) Complete(ctx context.Context, orgID, id string, receipts []ItemQuantity) (*entity.StockTransfer, error) {
	if len(receipts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var transfer *entity.StockTransfer
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeTransfer, OrderID: id, Action: "complete"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		transfer, err = r.StockTransfers.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(transfer.Status, entity.StockTransferStatusInTransit); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus = transfer.Number, transfer.Status

		led := ledger.NewStockLedger(r.StockLevels)
		movLog := ledger.NewMovementLog(r.Movements)
		resMgr := ledger.NewReservationManager(led, r.Reservations)
		costing := ledger.NewCosting(r.Movements)

		for _, rec := range receipts {
			item := transfer.Item(rec.ItemID)
			if item == nil {
				return domain.ErrNotFound
			}
			if !rec.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			fromScope := ledger.Scope{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				LocationID:     transfer.FromLocationID,
			}
			toScope := fromScope
			toScope.LocationID = transfer.ToLocationID

			unitCost, err := costing.WeightedAverageCost(orgID, item.ProductID, item.VariantID, transfer.FromLocationID)
			if err != nil {
				return err
			}
			beforeFrom, err := onHandAt(r.StockLevels, fromScope)
			if err != nil {
				return err
			}
			beforeTo, err := onHandAt(r.StockLevels, toScope)
			if err != nil {
				return err
			}

			fromLv, err := led.Adjust(fromScope, rec.Quantity.Neg(), decimal.Zero)
			if err != nil {
				return err
			}
			toLv, err := led.Adjust(toScope, rec.Quantity, decimal.Zero)
			if err != nil {
				return err
			}

			// Dos movimientos por línea: salida del origen y entrada al destino
			if _, err := movLog.Record(ledger.MovementRecord{
				Scope:           fromScope,
				Type:            entity.MovementTypeTransfer,
				FromLocationID:  transfer.FromLocationID,
				Quantity:        rec.Quantity,
				UnitCost:        unitCost,
				SourceOrderType: entity.OrderTypeTransfer,
				SourceOrderID:   transfer.ID,
				Reason:          "salida por traslado " + transfer.Number,
			}); err != nil {
				return err
			}
			if _, err := movLog.Record(ledger.MovementRecord{
				Scope:           toScope,
				Type:            entity.MovementTypeTransfer,
				ToLocationID:    transfer.ToLocationID,
				Quantity:        rec.Quantity,
				UnitCost:        unitCost,
				SourceOrderType: entity.OrderTypeTransfer,
				SourceOrderID:   transfer.ID,
				Reason:          "entrada por traslado " + transfer.Number,
			}); err != nil {
				return err
			}

			if err := resMgr.Release(fromScope, rec.Quantity, entity.OrderTypeTransfer, transfer.ID); err != nil {
				return err
			}
			item.QuantityReceived = item.QuantityReceived.Add(rec.Quantity)
			if err := r.StockTransfers.UpdateItemReceived(item.ID, item.QuantityReceived); err != nil {
				return err
			}
			ev.Items = append(ev.Items,
				captureChange(fromScope, rec.Quantity, beforeFrom, fromLv.OnHand),
				captureChange(toScope, rec.Quantity, beforeTo, toLv.OnHand),
			)
		}

		if transfer.FullyReceived() {
			transfer.Status = entity.StockTransferStatusCompleted
			if err := r.StockTransfers.UpdateStatus(transfer.ID, transfer.Status); err != nil {
				return err
			}
		}
		ev.ToStatus = transfer.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Cancel transición draft|in_transit → cancelled. Desde in_transit primero libera
// las reservas pendientes en origen. Un traslado completed nunca puede cancelarse.
func (uc *StockTransfers) Cancel(ctx context.Context, orgID, id string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	ev := &TransitionEvent{OrganizationID: orgID, OrderType: entity.OrderTypeTransfer, OrderID: id, Action: "cancel"}
	err := uc.engine.transition(ctx, ev, func(r ledger.Repos) error {
		var err error
		transfer, err = r.StockTransfers.GetByIDForUpdate(orgID, id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if err := guardStatus(transfer.Status, entity.StockTransferStatusDraft, entity.StockTransferStatusInTransit); err != nil {
			return err
		}
		ev.OrderNumber, ev.FromStatus, ev.ToStatus = transfer.Number, transfer.Status, entity.StockTransferStatusCancelled

		if transfer.Status == entity.StockTransferStatusInTransit {
			led := ledger.NewStockLedger(r.StockLevels)
			resMgr := ledger.NewReservationManager(led, r.Reservations)
			if err := resMgr.ReleaseAllForOrder(orgID, entity.OrderTypeTransfer, transfer.ID); err != nil {
				return err
			}
		}
		transfer.Status = entity.StockTransferStatusCancelled
		return r.StockTransfers.UpdateStatus(transfer.ID, transfer.Status)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Get devuelve el traslado con sus líneas.
func (uc *StockTransfers) Get(ctx context.Context, orgID, id string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		transfer, err = r.StockTransfers.GetByID(orgID, id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// List devuelve cabeceras de traslados de la organización, paginadas.
func (uc *StockTransfers) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.StockTransfer, error) {
	var transfers []*entity.StockTransfer
	err := uc.engine.tx.Run(ctx, func(r ledger.Repos) error {
		var err error
		transfers, err = r.StockTransfers.ListByOrganization(orgID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
