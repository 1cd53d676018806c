package fulfillment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ItemChange cambio de cantidad de una línea dentro de una transición, con
// on-hand antes y después para la pista de auditoría.
type ItemChange struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	LocationID   string          `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	OnHandBefore decimal.Decimal `json:"on_hand_before"`
	OnHandAfter  decimal.Decimal `json:"on_hand_after"`
}

// TransitionEvent evento estructurado emitido por cada transición completada
// (solo después del commit).
type TransitionEvent struct {
	OrganizationID string       `json:"organization_id"`
	OrderType      string       `json:"order_type"`
	OrderID        string       `json:"order_id"`
	OrderNumber    string       `json:"order_number"`
	Action         string       `json:"action"`
	FromStatus     string       `json:"from_status"`
	ToStatus       string       `json:"to_status"`
	OccurredAt     time.Time    `json:"occurred_at"`
	Items          []ItemChange `json:"items,omitempty"`
}

// TransitionRecorder puerto hacia el sink de auditoría. La implementación no debe
// bloquear el request path; los errores de publicación no afectan la transacción
// ya confirmada.
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, ev TransitionEvent)
}

// NopRecorder descarta los eventos (tests y entornos sin broker).
type NopRecorder struct{}

func (NopRecorder) RecordTransition(context.Context, TransitionEvent) {}
