package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain/repository"
)

var _ repository.OrderNumberRepository = (*OrderNumberRepo)(nil)

// OrderNumberRepo implementación de OrderNumberRepository sobre PostgreSQL.
// Debe usarse dentro de la misma transacción que crea la orden: el upsert
// bloquea la fila del contador, así dos creaciones concurrentes del mismo
// (organización, tipo, día) quedan serializadas y nunca repiten número.
type OrderNumberRepo struct {
	q Querier
}

// NewOrderNumberRepository construye el adaptador.
func NewOrderNumberRepository(q Querier) *OrderNumberRepo {
	return &OrderNumberRepo{q: q}
}

// Next avanza y devuelve el siguiente consecutivo del día.
func (r *OrderNumberRepo) Next(orgID, orderType string, day time.Time) (int, error) {
	query := `
		INSERT INTO order_number_sequences (organization_id, order_type, seq_date, seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (organization_id, order_type, seq_date)
		DO UPDATE SET seq = order_number_sequences.seq + 1
		RETURNING seq`
	var seq int
	err := r.q.QueryRow(context.Background(), query, orgID, orderType, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return seq, nil
}
