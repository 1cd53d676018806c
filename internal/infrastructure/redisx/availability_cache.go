// Package redisx aporta el cache de lectura sobre Redis. Solo se usa en el
// read path HTTP: el ledger transaccional nunca depende de Redis.
package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// Clave de disponibilidad: avail:{org}:{product}:{variant}:{location}.
const keyAvailability = "avail:%s:%s:%s:%s"

// New crea el cliente Redis.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// AvailabilityCache cachea respuestas de disponibilidad con TTL corto.
// El cache es tolerante a fallas: un Redis caído degrada a ir siempre a BD.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache construye el cache. ttl típico: segundos, no minutos;
// la disponibilidad cambia con cada movimiento.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func availabilityKey(orgID, productID, variantID, locationID string) string {
	return fmt.Sprintf(keyAvailability, orgID, productID, variantID, locationID)
}

// Get devuelve la lista cacheada; (nil, nil) en cache miss o error de Redis.
func (c *AvailabilityCache) Get(ctx context.Context, orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error) {
	raw, err := c.rdb.Get(ctx, availabilityKey(orgID, productID, variantID, locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	var list []*entity.LocationAvailability
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, nil
	}
	return list, nil
}

// Set guarda la lista con el TTL configurado. Errores de Redis se ignoran.
func (c *AvailabilityCache) Set(ctx context.Context, orgID, productID, variantID, locationID string, list []*entity.LocationAvailability) {
	payload, err := json.Marshal(list)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, availabilityKey(orgID, productID, variantID, locationID), payload, c.ttl).Err()
}

// Invalidate borra la entrada exacta (se invoca tras escrituras conocidas; el
// TTL corto cubre el resto de los casos).
func (c *AvailabilityCache) Invalidate(ctx context.Context, orgID, productID, variantID, locationID string) {
	_ = c.rdb.Del(ctx, availabilityKey(orgID, productID, variantID, locationID)).Err()
}
