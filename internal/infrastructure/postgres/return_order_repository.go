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

var _ repository.ReturnOrderRepository = (*ReturnOrderRepo)(nil)

// ReturnOrderRepo implementación de ReturnOrderRepository (usable con pool o tx).
type ReturnOrderRepo struct {
	q Querier
}

// NewReturnOrderRepository construye el adaptador.
func NewReturnOrderRepository(q Querier) *ReturnOrderRepo {
	return &ReturnOrderRepo{q: q}
}

// Create persiste la cabecera y todas las líneas de la devolución.
func (r *ReturnOrderRepo) Create(order *entity.ReturnOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO return_orders (id, organization_id, store_id, number, sales_order_id, location_id,
			status, reason, subtotal, discount_total, tax_total, shipping_total, grand_total,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrganizationID, order.StoreID, order.Number,
		nullIfEmpty(order.SalesOrderID), order.LocationID, order.Status, nullIfEmpty(order.Reason),
		order.Totals.Subtotal, order.Totals.Discount, order.Totals.Tax,
		order.Totals.Shipping, order.Totals.GrandTotal, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de devolución duplicado", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert return order: %w", err)
	}
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.ReturnOrderID = order.ID
		itemQuery := `
			INSERT INTO return_order_items (id, return_order_id, product_id, variant_id,
				quantity_returned, quantity_processed, disposition, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.ReturnOrderID, it.ProductID, nullIfEmpty(it.VariantID),
			it.QuantityReturned, it.QuantityProcessed, nullIfEmpty(it.Disposition), it.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert return order item: %w", err)
		}
	}
	return nil
}

func (r *ReturnOrderRepo) getByID(orgID, id string, forUpdate bool) (*entity.ReturnOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, COALESCE(sales_order_id, ''), location_id,
		       status, COALESCE(reason, ''), subtotal, discount_total, tax_total, shipping_total,
		       grand_total, created_at, updated_at
		FROM return_orders
		WHERE organization_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var ro entity.ReturnOrder
	err := r.q.QueryRow(context.Background(), query, orgID, id).Scan(
		&ro.ID, &ro.OrganizationID, &ro.StoreID, &ro.Number, &ro.SalesOrderID, &ro.LocationID,
		&ro.Status, &ro.Reason, &ro.Totals.Subtotal, &ro.Totals.Discount, &ro.Totals.Tax,
		&ro.Totals.Shipping, &ro.Totals.GrandTotal, &ro.CreatedAt, &ro.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return order: %w", err)
	}
	ro.Items, err = r.itemsByOrder(ro.ID)
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

// GetByID obtiene la devolución con sus líneas; nil si no existe.
func (r *ReturnOrderRepo) GetByID(orgID, id string) (*entity.ReturnOrder, error) {
	return r.getByID(orgID, id, false)
}

// GetByIDForUpdate bloquea la fila de la devolución para serializar transiciones de estado.
func (r *ReturnOrderRepo) GetByIDForUpdate(orgID, id string) (*entity.ReturnOrder, error) {
	return r.getByID(orgID, id, true)
}

func (r *ReturnOrderRepo) itemsByOrder(orderID string) ([]*entity.ReturnOrderItem, error) {
	query := `
		SELECT id, return_order_id, product_id, variant_id, quantity_returned,
		       quantity_processed, COALESCE(disposition, ''), unit_price
		FROM return_order_items WHERE return_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list return order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.ReturnOrderItem
	for rows.Next() {
		var it entity.ReturnOrderItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.ReturnOrderID, &it.ProductID, &variant,
			&it.QuantityReturned, &it.QuantityProcessed, &it.Disposition, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan return order item: %w", err)
		}
		it.VariantID = orEmpty(variant)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado de la devolución.
func (r *ReturnOrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE return_orders SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, status); err != nil {
		return fmt.Errorf("update return order status: %w", err)
	}
	return nil
}

// UpdateItemProcessed registra la cantidad procesada y la disposición aplicada.
func (r *ReturnOrderRepo) UpdateItemProcessed(itemID string, processed decimal.Decimal, disposition string) error {
	query := `UPDATE return_order_items SET quantity_processed = $2, disposition = $3 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, itemID, processed, disposition); err != nil {
		return fmt.Errorf("update return order item processed: %w", err)
	}
	return nil
}

// ListByOrganization lista cabeceras de devoluciones de la organización (sin líneas).
func (r *ReturnOrderRepo) ListByOrganization(orgID string, limit, offset int) ([]*entity.ReturnOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, COALESCE(sales_order_id, ''), location_id,
		       status, COALESCE(reason, ''), subtotal, discount_total, tax_total, shipping_total,
		       grand_total, created_at, updated_at
		FROM return_orders
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list return orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnOrder
	for rows.Next() {
		var ro entity.ReturnOrder
		if err := rows.Scan(&ro.ID, &ro.OrganizationID, &ro.StoreID, &ro.Number, &ro.SalesOrderID,
			&ro.LocationID, &ro.Status, &ro.Reason, &ro.Totals.Subtotal, &ro.Totals.Discount,
			&ro.Totals.Tax, &ro.Totals.Shipping, &ro.Totals.GrandTotal,
			&ro.CreatedAt, &ro.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan return order: %w", err)
		}
		list = append(list, &ro)
	}
	return list, rows.Err()
}
