package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
)

// Engine es el núcleo compartido de las cuatro máquinas de estado: ejecuta cada
// transición como una unidad atómica (TxRunner), numera órdenes y emite el
// evento de auditoría después del commit. Las diferencias por tipo de orden
// viven en los casos de uso que lo componen.
type Engine struct {
	tx       ledger.TxRunner
	recorder TransitionRecorder
	log      *logger.Logger
}

// NewEngine construye el motor compartido.
func NewEngine(tx ledger.TxRunner, recorder TransitionRecorder, log *logger.Logger) *Engine {
	return &Engine{tx: tx, recorder: recorder, log: log}
}

// transition corre fn dentro de una transacción; si confirma, publica el evento
// y deja traza estructurada. Cualquier error de fn aborta la unidad completa
// sin escrituras parciales.
func (e *Engine) transition(ctx context.Context, ev *TransitionEvent, fn func(r ledger.Repos) error) error {
	if err := e.tx.Run(ctx, fn); err != nil {
		return err
	}
	ev.OccurredAt = time.Now()
	e.recorder.RecordTransition(ctx, *ev)
	e.log.Info().
		Str("order_type", ev.OrderType).
		Str("order_id", ev.OrderID).
		Str("action", ev.Action).
		Str("from", ev.FromStatus).
		Str("to", ev.ToStatus).
		Int("items", len(ev.Items)).
		Msg("transición de fulfillment confirmada")
	return nil
}

// Prefijos de numeración por tipo de orden.
var numberPrefixes = map[string]string{
	entity.OrderTypePurchase: "PR",
	entity.OrderTypeSales:    "ORD",
	entity.OrderTypeTransfer: "TRF",
	entity.OrderTypeReturn:   "SR",
}

// nextOrderNumber genera el número legible con prefijo y fecha, avanzando la
// secuencia (organización, tipo, día) dentro de la misma transacción para que
// creaciones concurrentes nunca colisionen.
func nextOrderNumber(numbers repository.OrderNumberRepository, orgID, orderType string) (string, error) {
	day := time.Now()
	seq, err := numbers.Next(orgID, orderType, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", numberPrefixes[orderType], day.Format("20060102"), seq), nil
}

// guardStatus valida que el estado actual permita la transición.
func guardStatus(current string, allowed ...string) error {
	for _, s := range allowed {
		if current == s {
			return nil
		}
	}
	return domain.ErrInvalidState
}

// ItemQuantity cantidad recibida/despachada para una línea en una acción parcial.
type ItemQuantity struct {
	ItemID   string
	Quantity decimal.Decimal
}

// captureChange arma el ItemChange de auditoría a partir del nivel previo y posterior.
func captureChange(scope ledger.Scope, qty, before, after decimal.Decimal) ItemChange {
	return ItemChange{
		ProductID:    scope.ProductID,
		VariantID:    scope.VariantID,
		LocationID:   scope.LocationID,
		Quantity:     qty,
		OnHandBefore: before,
		OnHandAfter:  after,
	}
}

// onHandAt lee el on-hand actual sin bloquear (para el antes del audit trail).
func onHandAt(levels repository.StockLevelRepository, scope ledger.Scope) (decimal.Decimal, error) {
	lv, err := levels.Get(scope.OrganizationID, scope.ProductID, scope.VariantID, scope.LocationID)
	if err != nil {
		return decimal.Zero, err
	}
	return lv.OnHand, nil
}
