package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// La tabla stock_movements es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, organization_id, product_id, variant_id, from_location_id, to_location_id,
		quantity, unit_cost, movement_type, source_order_type, source_order_id, reason, created_at`

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, organization_id, product_id, variant_id,
			from_location_id, to_location_id, quantity, unit_cost, movement_type,
			source_order_type, source_order_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.OrganizationID, m.ProductID, nullIfEmpty(m.VariantID),
		nullIfEmpty(m.FromLocationID), nullIfEmpty(m.ToLocationID),
		m.Quantity, m.UnitCost, m.Type,
		m.SourceOrderType, m.SourceOrderID, m.Reason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var variant, from, to *string
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ProductID, &variant, &from, &to,
			&m.Quantity, &m.UnitCost, &m.Type, &m.SourceOrderType, &m.SourceOrderID,
			&m.Reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.VariantID = orEmpty(variant)
		m.FromLocationID = orEmpty(from)
		m.ToLocationID = orEmpty(to)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListRecentInbound devuelve las últimas entradas stock_in del alcance (para el costeo).
func (r *MovementRepo) ListRecentInbound(orgID, productID, variantID, locationID string, limit int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3
		  AND movement_type = $4`
	args := []any{orgID, productID, nullIfEmpty(variantID), entity.MovementTypeStockIn}
	pos := 5
	if locationID != "" {
		query += fmt.Sprintf(" AND to_location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)
	return r.queryMovements(query, args...)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2`
	args := []any{orgID, productID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args...)
}

// ListByOrder lista los movimientos originados por una orden (pista de auditoría).
func (r *MovementRepo) ListByOrder(orgID, orderType, orderID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE organization_id = $1 AND source_order_type = $2 AND source_order_id = $3
		ORDER BY created_at ASC`
	return r.queryMovements(query, orgID, orderType, orderID)
}
