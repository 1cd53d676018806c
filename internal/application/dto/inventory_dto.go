package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// LocationAvailabilityDTO disponibilidad de una ubicación en respuestas.
type LocationAvailabilityDTO struct {
	LocationID string          `json:"location_id"`
	Available  decimal.Decimal `json:"available"`
}

// FromAvailability mapea la lista de disponibilidad a DTOs.
func FromAvailability(list []*entity.LocationAvailability) []LocationAvailabilityDTO {
	out := make([]LocationAvailabilityDTO, 0, len(list))
	for _, la := range list {
		out = append(out, LocationAvailabilityDTO{LocationID: la.LocationID, Available: la.Available})
	}
	return out
}

// MovementDTO movimiento de stock en respuestas (pista de auditoría, solo lectura).
type MovementDTO struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Type            string          `json:"type"`
	SourceOrderType string          `json:"source_order_type,omitempty"`
	SourceOrderID   string          `json:"source_order_id,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// FromMovements mapea movimientos a DTOs.
func FromMovements(list []*entity.Movement) []MovementDTO {
	out := make([]MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, MovementDTO{
			ID:              m.ID,
			ProductID:       m.ProductID,
			VariantID:       m.VariantID,
			FromLocationID:  m.FromLocationID,
			ToLocationID:    m.ToLocationID,
			Quantity:        m.Quantity,
			UnitCost:        m.UnitCost,
			Type:            m.Type,
			SourceOrderType: m.SourceOrderType,
			SourceOrderID:   m.SourceOrderID,
			Reason:          m.Reason,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out
}

// WeightedCostResponse costo promedio ponderado de un producto/variante.
type WeightedCostResponse struct {
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id,omitempty"`
	LocationID string          `json:"location_id,omitempty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}
