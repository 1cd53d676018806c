package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador.
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create persiste la cabecera y todas las líneas del traslado.
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transfers (id, organization_id, store_id, number,
			from_location_id, to_location_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.OrganizationID, transfer.StoreID, transfer.Number,
		transfer.FromLocationID, transfer.ToLocationID, transfer.Status,
		nullIfEmpty(transfer.Notes), transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de traslado duplicado", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	for _, it := range transfer.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.StockTransferID = transfer.ID
		itemQuery := `
			INSERT INTO stock_transfer_items (id, stock_transfer_id, product_id, variant_id,
				quantity_requested, quantity_received)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.StockTransferID, it.ProductID, nullIfEmpty(it.VariantID),
			it.QuantityRequested, it.QuantityReceived,
		); err != nil {
			return fmt.Errorf("insert stock transfer item: %w", err)
		}
	}
	return nil
}

func (r *StockTransferRepo) getByID(orgID, id string, forUpdate bool) (*entity.StockTransfer, error) {
	query := `
		SELECT id, organization_id, store_id, number, from_location_id, to_location_id,
		       status, COALESCE(notes, ''), created_at, updated_at
		FROM stock_transfers
		WHERE organization_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var st entity.StockTransfer
	err := r.q.QueryRow(context.Background(), query, orgID, id).Scan(
		&st.ID, &st.OrganizationID, &st.StoreID, &st.Number, &st.FromLocationID, &st.ToLocationID,
		&st.Status, &st.Notes, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	st.Items, err = r.itemsByTransfer(st.ID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByID obtiene el traslado con sus líneas; nil si no existe.
func (r *StockTransferRepo) GetByID(orgID, id string) (*entity.StockTransfer, error) {
	return r.getByID(orgID, id, false)
}

// GetByIDForUpdate bloquea la fila del traslado para serializar transiciones de estado.
func (r *StockTransferRepo) GetByIDForUpdate(orgID, id string) (*entity.StockTransfer, error) {
	return r.getByID(orgID, id, true)
}

func (r *StockTransferRepo) itemsByTransfer(transferID string) ([]*entity.StockTransferItem, error) {
	query := `
		SELECT id, stock_transfer_id, product_id, variant_id, quantity_requested, quantity_received
		FROM stock_transfer_items WHERE stock_transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	var items []*entity.StockTransferItem
	for rows.Next() {
		var it entity.StockTransferItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.StockTransferID, &it.ProductID, &variant,
			&it.QuantityRequested, &it.QuantityReceived); err != nil {
			return nil, fmt.Errorf("scan stock transfer item: %w", err)
		}
		it.VariantID = orEmpty(variant)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado del traslado.
func (r *StockTransferRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_transfers SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, status); err != nil {
		return fmt.Errorf("update stock transfer status: %w", err)
	}
	return nil
}

// UpdateItemReceived registra la cantidad recibida en destino de una línea.
func (r *StockTransferRepo) UpdateItemReceived(itemID string, received decimal.Decimal) error {
	query := `UPDATE stock_transfer_items SET quantity_received = $2 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, itemID, received); err != nil {
		return fmt.Errorf("update stock transfer item received: %w", err)
	}
	return nil
}

// ListByOrganization lista cabeceras de traslados de la organización (sin líneas).
func (r *StockTransferRepo) ListByOrganization(orgID string, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `
		SELECT id, organization_id, store_id, number, from_location_id, to_location_id,
		       status, COALESCE(notes, ''), created_at, updated_at
		FROM stock_transfers
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		var st entity.StockTransfer
		if err := rows.Scan(&st.ID, &st.OrganizationID, &st.StoreID, &st.Number,
			&st.FromLocationID, &st.ToLocationID, &st.Status, &st.Notes,
			&st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}
