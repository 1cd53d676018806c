package repository

import "github.com/jhoicas/retail-ledger-api/internal/domain/entity"

// StockLevelRepository define el puerto para consultar/actualizar niveles de stock
// por producto+variante+ubicación. Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// Get devuelve el nivel actual; si no existe la fila devuelve un nivel en cero
	// (el nivel se materializa recién con el primer Upsert).
	Get(orgID, productID, variantID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(orgID, productID, variantID, locationID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	// ListAvailability devuelve disponibilidad > 0 por ubicación; locationID vacío = todas.
	ListAvailability(orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error)
}
