package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de niveles de stock. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `organization_id, product_id, variant_id, location_id,
		quantity_on_hand, quantity_reserved, quantity_available, reorder_point, updated_at`

func (r *StockLevelRepo) scanLevel(row pgx.Row, orgID, productID, variantID, locationID string) (*entity.StockLevel, error) {
	var lv entity.StockLevel
	var variant *string
	err := row.Scan(
		&lv.OrganizationID, &lv.ProductID, &variant, &lv.LocationID,
		&lv.OnHand, &lv.Reserved, &lv.Available, &lv.ReorderPoint, &lv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// La fila se materializa recién con el primer Upsert
			return &entity.StockLevel{
				OrganizationID: orgID,
				ProductID:      productID,
				VariantID:      variantID,
				LocationID:     locationID,
				OnHand:         decimal.Zero,
				Reserved:       decimal.Zero,
				Available:      decimal.Zero,
				ReorderPoint:   decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	lv.VariantID = orEmpty(variant)
	return &lv, nil
}

// Get obtiene el nivel actual; devuelve un nivel en cero si la fila no existe aún.
func (r *StockLevelRepo) Get(orgID, productID, variantID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE organization_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3 AND location_id = $4`
	row := r.q.QueryRow(context.Background(), query, orgID, productID, nullIfEmpty(variantID), locationID)
	return r.scanLevel(row, orgID, productID, variantID, locationID)
}

// GetForUpdate obtiene el nivel y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockLevelRepo) GetForUpdate(orgID, productID, variantID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE organization_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3 AND location_id = $4
		FOR UPDATE`
	row := r.q.QueryRow(context.Background(), query, orgID, productID, nullIfEmpty(variantID), locationID)
	return r.scanLevel(row, orgID, productID, variantID, locationID)
}

// Upsert inserta o actualiza el nivel (por organización, producto, variante y ubicación).
// El ON CONFLICT se apoya en el índice único NULLS NOT DISTINCT de stock_levels
// (migrations/001_init.sql, PostgreSQL 15+): sin él, las filas con variant_id NULL
// no conflictúan entre sí y la creación perezosa duplicaría el nivel sin variante.
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (organization_id, product_id, variant_id, location_id,
			quantity_on_hand, quantity_reserved, quantity_available, reorder_point, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (organization_id, product_id, variant_id, location_id)
		DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			quantity_reserved = EXCLUDED.quantity_reserved,
			quantity_available = EXCLUDED.quantity_available,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		level.OrganizationID, level.ProductID, nullIfEmpty(level.VariantID), level.LocationID,
		level.OnHand, level.Reserved, level.Available, level.ReorderPoint,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListAvailability devuelve las ubicaciones con disponibilidad > 0; locationID vacío = todas.
func (r *StockLevelRepo) ListAvailability(orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error) {
	query := `
		SELECT location_id, quantity_available
		FROM stock_levels
		WHERE organization_id = $1 AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3
		  AND quantity_available > 0`
	args := []any{orgID, productID, nullIfEmpty(variantID)}
	if locationID != "" {
		query += " AND location_id = $4"
		args = append(args, locationID)
	}
	query += " ORDER BY location_id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationAvailability
	for rows.Next() {
		var la entity.LocationAvailability
		if err := rows.Scan(&la.LocationID, &la.Available); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		list = append(list, &la)
	}
	return list, rows.Err()
}
