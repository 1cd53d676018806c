package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado de stock.
const (
	StockTransferStatusDraft     = "draft"
	StockTransferStatusInTransit = "in_transit"
	StockTransferStatusCompleted = "completed"
	StockTransferStatusCancelled = "cancelled"
)

// StockTransfer traslado entre ubicaciones: draft → in_transit → completed | cancelled.
// Aprobar reserva stock en origen; completar registra dos movimientos por línea
// (salida de origen, entrada a destino) y libera la reserva. Un traslado
// completed nunca puede cancelarse.
type StockTransfer struct {
	ID             string
	OrganizationID string
	StoreID        string
	Number         string
	FromLocationID string
	ToLocationID   string
	Status         string
	Notes          string
	Items          []*StockTransferItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockTransferItem línea de traslado.
type StockTransferItem struct {
	ID                string
	StockTransferID   string
	ProductID         string
	VariantID         string
	QuantityRequested decimal.Decimal
	QuantityReceived  decimal.Decimal
}

// FullyReceived indica si todas las líneas llegaron completas a destino.
func (st *StockTransfer) FullyReceived() bool {
	for _, it := range st.Items {
		if it.QuantityReceived.LessThan(it.QuantityRequested) {
			return false
		}
	}
	return len(st.Items) > 0
}

// Item busca una línea por ID; nil si no existe.
func (st *StockTransfer) Item(itemID string) *StockTransferItem {
	for _, it := range st.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
