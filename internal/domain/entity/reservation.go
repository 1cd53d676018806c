package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva.
const (
	ReservationStatusActive   = "active"
	ReservationStatusConsumed = "consumed"
	ReservationStatusExpired  = "expired"
)

// ReservationDefaultTTL tiempo de vida por defecto de una reserva activa.
const ReservationDefaultTTL = 7 * 24 * time.Hour

// Reservation es una retención temporal de stock disponible atada a una orden
// en curso. Pasa a consumed al cumplirse la orden o a expired por timeout; al
// salir de active su cantidad siempre vuelve a quantity_available.
type Reservation struct {
	ID              string
	OrganizationID  string
	ProductID       string
	VariantID       string
	LocationID      string
	Quantity        decimal.Decimal
	ReservedForType string // purchase_order, sales_order, stock_transfer, return_order
	ReservedForID   string
	Status          string
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired indica si una reserva activa ya pasó su fecha de expiración.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationStatusActive && now.After(r.ExpiresAt)
}
