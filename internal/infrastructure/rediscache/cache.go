package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ inventory.DisplayCache = (*DisplayCache)(nil)

// DisplayCache es el cache read-through de vistas de inventario sobre Redis.
// Solo display: las decisiones de compra siempre leen la BD. Un Redis caído
// degrada a cache miss, nunca a error del caller.
type DisplayCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewDisplayCache construye el cache con el TTL configurado.
func NewDisplayCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *DisplayCache {
	return &DisplayCache{client: client, ttl: ttl, log: log}
}

// GetInventory intenta leer la vista cacheada. (nil, false) en miss o fallo.
func (c *DisplayCache) GetInventory(ctx context.Context, productID, variantID string) (*inventory.InventoryInfo, bool) {
	data, err := c.client.Get(ctx, cacheKey(productID, variantID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("lectura de cache falló")
		}
		return nil, false
	}
	var info inventory.InventoryInfo
	if err := json.Unmarshal(data, &info); err != nil {
		c.log.Warn().Err(err).Msg("payload de cache corrupto")
		return nil, false
	}
	return &info, true
}

// SetInventory guarda la vista con TTL. Fallos solo se registran.
func (c *DisplayCache) SetInventory(ctx context.Context, productID, variantID string, info *inventory.InventoryInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		c.log.Warn().Err(err).Msg("marshal de vista de inventario falló")
		return
	}
	if err := c.client.Set(ctx, cacheKey(productID, variantID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("escritura de cache falló")
	}
}

// Invalidate borra las entradas de la variante y la del producto sin variante
// (la vista "por defecto" cachea bajo variantID vacío).
func (c *DisplayCache) Invalidate(ctx context.Context, productID, variantID string) {
	keys := []string{cacheKey(productID, variantID)}
	if variantID != "" {
		keys = append(keys, cacheKey(productID, ""))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("invalidación de cache falló")
	}
}

func cacheKey(productID, variantID string) string {
	return fmt.Sprintf("inventory:%s:%s", productID, variantID)
}
