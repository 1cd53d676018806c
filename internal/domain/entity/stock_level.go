package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa el stock actual de una variante de producto en una ubicación.
// Identidad: (ProductID, VariantID opcional, LocationID). Se crea de forma perezosa
// con el primer movimiento hacia la ubicación; nunca se elimina, solo se lleva a cero.
//
// Invariante: OnHand >= 0, Reserved >= 0, Available >= 0. Available se recalcula como
// OnHand - Reserved con clamp a cero independiente, por lo que bajo underflow
// concurrente la identidad puede divergir (comportamiento preservado del diseño original).
type StockLevel struct {
	OrganizationID string
	ProductID      string
	VariantID      string // vacío = producto sin variantes
	LocationID     string
	OnHand         decimal.Decimal
	Reserved       decimal.Decimal
	Available      decimal.Decimal
	ReorderPoint   decimal.Decimal
	UpdatedAt      time.Time
}

// LocationAvailability resultado de la consulta de disponibilidad por ubicación.
type LocationAvailability struct {
	LocationID string
	Available  decimal.Decimal
}
