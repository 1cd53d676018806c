package repository

import (
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para reservas de stock.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	// FindActive busca la reserva activa que matchea producto+variante+ubicación+orden.
	// Devuelve nil si no existe (la liberación es no-op idempotente en ese caso).
	FindActive(orgID, productID, variantID, locationID, forType, forID string) (*entity.Reservation, error)
	UpdateStatus(id, status string) error
	// ListExpired devuelve reservas activas con expires_at anterior a now.
	ListExpired(orgID string, now time.Time) ([]*entity.Reservation, error)
	// ListActiveByOrder devuelve todas las reservas activas de una orden (para cancelaciones).
	ListActiveByOrder(orgID, forType, forID string) ([]*entity.Reservation, error)
	// ListOrganizationsWithActive devuelve las organizaciones con al menos una reserva
	// activa, para que el scheduler de expiración recorra organización por organización.
	ListOrganizationsWithActive() ([]string, error)
}
