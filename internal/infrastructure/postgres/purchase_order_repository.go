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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera y todas las líneas de la orden.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_orders (id, organization_id, store_id, number, supplier_name, location_id,
			status, subtotal, discount_total, tax_total, shipping_total, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrganizationID, order.StoreID, order.Number, order.SupplierName, order.LocationID,
		order.Status, order.Totals.Subtotal, order.Totals.Discount, order.Totals.Tax,
		order.Totals.Shipping, order.Totals.GrandTotal, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de orden de compra duplicado", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseOrderID = order.ID
		itemQuery := `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, variant_id,
				quantity_ordered, quantity_received, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.PurchaseOrderID, it.ProductID, nullIfEmpty(it.VariantID),
			it.QuantityOrdered, it.QuantityReceived, it.UnitCost,
		); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) getByID(orgID, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, supplier_name, location_id,
		       status, subtotal, discount_total, tax_total, shipping_total, grand_total,
		       created_at, updated_at
		FROM purchase_orders
		WHERE organization_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, orgID, id).Scan(
		&po.ID, &po.OrganizationID, &po.StoreID, &po.Number, &po.SupplierName, &po.LocationID,
		&po.Status, &po.Totals.Subtotal, &po.Totals.Discount, &po.Totals.Tax,
		&po.Totals.Shipping, &po.Totals.GrandTotal, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	po.Items, err = r.itemsByOrder(po.ID)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(orgID, id string) (*entity.PurchaseOrder, error) {
	return r.getByID(orgID, id, false)
}

// GetByIDForUpdate bloquea la fila de la orden para serializar transiciones de estado.
func (r *PurchaseOrderRepo) GetByIDForUpdate(orgID, id string) (*entity.PurchaseOrder, error) {
	return r.getByID(orgID, id, true)
}

func (r *PurchaseOrderRepo) itemsByOrder(orderID string) ([]*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, purchase_order_id, product_id, variant_id, quantity_ordered, quantity_received, unit_cost
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		var variant *string
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &variant,
			&it.QuantityOrdered, &it.QuantityReceived, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		it.VariantID = orEmpty(variant)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, status); err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// UpdateItemReceived registra la cantidad recibida acumulada de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(itemID string, received decimal.Decimal) error {
	query := `UPDATE purchase_order_items SET quantity_received = $2 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, itemID, received); err != nil {
		return fmt.Errorf("update purchase order item received: %w", err)
	}
	return nil
}

// ListByOrganization lista cabeceras de órdenes de la organización (sin líneas).
func (r *PurchaseOrderRepo) ListByOrganization(orgID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, organization_id, store_id, number, supplier_name, location_id,
		       status, subtotal, discount_total, tax_total, shipping_total, grand_total,
		       created_at, updated_at
		FROM purchase_orders
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.OrganizationID, &po.StoreID, &po.Number, &po.SupplierName,
			&po.LocationID, &po.Status, &po.Totals.Subtotal, &po.Totals.Discount, &po.Totals.Tax,
			&po.Totals.Shipping, &po.Totals.GrandTotal, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}
