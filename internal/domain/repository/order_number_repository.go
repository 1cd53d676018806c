package repository

import "time"

// OrderNumberRepository define el puerto para la secuencia de numeración de órdenes.
// La secuencia está clavada por (organización, tipo de orden, día) y debe avanzar
// dentro de la misma transacción que crea la orden, para que dos creaciones
// concurrentes nunca obtengan el mismo número.
type OrderNumberRepository interface {
	Next(orgID, orderType string, day time.Time) (int, error)
}
