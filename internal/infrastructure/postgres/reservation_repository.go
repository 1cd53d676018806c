package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador.
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, organization_id, product_id, variant_id, location_id,
		quantity, reserved_for_type, reserved_for_id, status, expires_at, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var variant *string
	err := row.Scan(&res.ID, &res.OrganizationID, &res.ProductID, &variant, &res.LocationID,
		&res.Quantity, &res.ReservedForType, &res.ReservedForID, &res.Status,
		&res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.VariantID = orEmpty(variant)
	return &res, nil
}

// Create persiste una reserva nueva.
func (r *ReservationRepo) Create(res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_reservations (id, organization_id, product_id, variant_id, location_id,
			quantity, reserved_for_type, reserved_for_id, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.OrganizationID, res.ProductID, nullIfEmpty(res.VariantID), res.LocationID,
		res.Quantity, res.ReservedForType, res.ReservedForID, res.Status,
		res.ExpiresAt, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// FindActive busca la reserva activa del alcance+orden; nil si no existe.
func (r *ReservationRepo) FindActive(orgID, productID, variantID, locationID, forType, forID string) (*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE organization_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3
		  AND location_id = $4 AND reserved_for_type = $5 AND reserved_for_id = $6
		  AND status = $7
		ORDER BY created_at ASC
		LIMIT 1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query,
		orgID, productID, nullIfEmpty(variantID), locationID, forType, forID,
		entity.ReservationStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active reservation: %w", err)
	}
	return res, nil
}

// UpdateStatus cambia el estado de una reserva (active → consumed | expired).
func (r *ReservationRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_reservations SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

func (r *ReservationRepo) queryReservations(query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// ListExpired devuelve reservas activas cuya expiración ya pasó.
func (r *ReservationRepo) ListExpired(orgID string, now time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE organization_id = $1 AND status = $2 AND expires_at < $3
		ORDER BY expires_at ASC`
	return r.queryReservations(query, orgID, entity.ReservationStatusActive, now)
}

// ListActiveByOrder devuelve las reservas activas atadas a una orden.
func (r *ReservationRepo) ListActiveByOrder(orgID, forType, forID string) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE organization_id = $1 AND reserved_for_type = $2 AND reserved_for_id = $3
		  AND status = $4
		ORDER BY created_at ASC`
	return r.queryReservations(query, orgID, forType, forID, entity.ReservationStatusActive)
}

// ListOrganizationsWithActive devuelve las organizaciones con reservas activas.
func (r *ReservationRepo) ListOrganizationsWithActive() ([]string, error) {
	query := `SELECT DISTINCT organization_id FROM stock_reservations WHERE status = $1`
	rows, err := r.q.Query(context.Background(), query, entity.ReservationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list organizations with active reservations: %w", err)
	}
	defer rows.Close()
	var orgs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan organization id: %w", err)
		}
		orgs = append(orgs, id)
	}
	return orgs, rows.Err()
}
