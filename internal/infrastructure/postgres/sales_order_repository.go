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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la cabecera y todas las líneas de la orden.
func (r *SalesOrderRepo) Create(order *entity.SalesOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_orders (id, organization_id, store_id, number, customer_name,
			status, subtotal, discount_total, tax_total, shipping_total, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrganizationID, order.StoreID, order.Number, order.CustomerName,
		order.Status, order.Totals.Subtotal, order.Totals.Discount, order.Totals.Tax,
		order.Totals.Shipping, order.Totals.GrandTotal, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de orden de venta duplicado", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SalesOrderID = order.ID
		itemQuery := `
			INSERT INTO sales_order_items (id, sales_order_id, product_id, variant_id, location_id,
				quantity_ordered, quantity_shipped, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.SalesOrderID, it.ProductID, nullIfEmpty(it.VariantID), it.LocationID,
			it.QuantityOrdered, it.QuantityShipped, it.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert sales order item: %w", err)
		}
	}
	return nil
}

func (r *SalesOrderRepo) getByID(orgID, id string, forUpdate bool) (*entity.SalesOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, customer_name,
		       status, subtotal, discount_total, tax_total, shipping_total, grand_total,
		       created_at, updated_at
		FROM sales_orders
		WHERE organization_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var so entity.SalesOrder
	err := r.q.QueryRow(context.Background(), query, orgID, id).Scan(
		&so.ID, &so.OrganizationID, &so.StoreID, &so.Number, &so.CustomerName,
		&so.Status, &so.Totals.Subtotal, &so.Totals.Discount, &so.Totals.Tax,
		&so.Totals.Shipping, &so.Totals.GrandTotal, &so.CreatedAt, &so.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	so.Items, err = r.itemsByOrder(so.ID)
	if err != nil {
		return nil, err
	}
	return &so, nil
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *SalesOrderRepo) GetByID(orgID, id string) (*entity.SalesOrder, error) {
	return r.getByID(orgID, id, false)
}

// GetByIDForUpdate bloquea la fila de la orden para serializar transiciones de estado.
func (r *SalesOrderRepo) GetByIDForUpdate(orgID, id string) (*entity.SalesOrder, error) {
	return r.getByID(orgID, id, true)
}

func (r *SalesOrderRepo) itemsByOrder(orderID string) ([]*entity.SalesOrderItem, error) {
	query := `
		SELECT id, sales_order_id, product_id, variant_id, location_id,
		       quantity_ordered, quantity_shipped, unit_price
		FROM sales_order_items WHERE sales_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SalesOrderItem
	for rows.Next() {
		var it entity.SalesOrderItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.SalesOrderID, &it.ProductID, &variant, &it.LocationID,
			&it.QuantityOrdered, &it.QuantityShipped, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sales order item: %w", err)
		}
		it.VariantID = orEmpty(variant)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *SalesOrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE sales_orders SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, status); err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	return nil
}

// UpdateItemShipped registra la cantidad despachada acumulada de una línea.
func (r *SalesOrderRepo) UpdateItemShipped(itemID string, shipped decimal.Decimal) error {
	query := `UPDATE sales_order_items SET quantity_shipped = $2 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, itemID, shipped); err != nil {
		return fmt.Errorf("update sales order item shipped: %w", err)
	}
	return nil
}

// ListByOrganization lista cabeceras de órdenes de la organización (sin líneas).
func (r *SalesOrderRepo) ListByOrganization(orgID string, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, customer_name,
		       status, subtotal, discount_total, tax_total, shipping_total, grand_total,
		       created_at, updated_at
		FROM sales_orders
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		var so entity.SalesOrder
		if err := rows.Scan(&so.ID, &so.OrganizationID, &so.StoreID, &so.Number, &so.CustomerName,
			&so.Status, &so.Totals.Subtotal, &so.Totals.Discount, &so.Totals.Tax,
			&so.Totals.Shipping, &so.Totals.GrandTotal, &so.CreatedAt, &so.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, &so)
	}
	return list, rows.Err()
}
