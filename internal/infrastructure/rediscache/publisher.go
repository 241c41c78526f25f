package rediscache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/realtime"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Canal pub/sub de eventos de inventario entre instancias.
const updateChannel = "inventory:update"

// envelope acompaña cada evento con la instancia emisora, para que el listener
// descarte los eventos propios (el hub local ya los recibió del broadcaster).
type envelope struct {
	Origin string             `json:"origin"`
	Update entity.StockUpdate `json:"update"`
}

var _ realtime.Sink = (*EventPublisher)(nil)

// EventPublisher reenvía los eventos de stock al canal Redis para que las
// demás instancias del storefront los repartan a sus propios suscriptores.
type EventPublisher struct {
	client     *redis.Client
	instanceID string
}

// NewEventPublisher construye el sink de publicación.
func NewEventPublisher(client *redis.Client, instanceID string) *EventPublisher {
	return &EventPublisher{client: client, instanceID: instanceID}
}

// Deliver publica el evento serializado. Best-effort: el broadcaster registra
// y descarta el error.
func (p *EventPublisher) Deliver(ctx context.Context, update entity.StockUpdate) error {
	data, err := json.Marshal(envelope{Origin: p.instanceID, Update: update})
	if err != nil {
		return fmt.Errorf("marshal stock update: %w", err)
	}
	if err := p.client.Publish(ctx, updateChannel, data).Err(); err != nil {
		return fmt.Errorf("publish stock update: %w", err)
	}
	return nil
}

// CacheInvalidator borra las entradas de display afectadas por cada evento.
// Implementa realtime.Sink para colgarse del mismo fan-out.
type CacheInvalidator struct {
	cache *DisplayCache
}

var _ realtime.Sink = (*CacheInvalidator)(nil)

// NewCacheInvalidator construye el sink de invalidación.
func NewCacheInvalidator(cache *DisplayCache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// Deliver invalida las claves del producto/variante del evento.
func (i *CacheInvalidator) Deliver(ctx context.Context, update entity.StockUpdate) error {
	i.cache.Invalidate(ctx, update.ProductID, update.VariantID)
	return nil
}

// EventListener consume el canal Redis y reinyecta eventos de otras instancias
// en el hub local, para que los suscriptores conectados aquí también los vean.
type EventListener struct {
	client     *redis.Client
	hub        *realtime.Hub
	instanceID string
	log        *logger.Logger
}

// NewEventListener construye el listener.
func NewEventListener(client *redis.Client, hub *realtime.Hub, instanceID string, log *logger.Logger) *EventListener {
	return &EventListener{client: client, hub: hub, instanceID: instanceID, log: log}
}

// Start consume el canal hasta que el contexto se cancele. Lanzar como goroutine.
func (l *EventListener) Start(ctx context.Context) {
	sub := l.client.Subscribe(ctx, updateChannel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				l.log.Warn().Err(err).Msg("evento de inventario ilegible")
				continue
			}
			if env.Origin == l.instanceID {
				continue // ya repartido por el broadcaster local
			}
			l.hub.Broadcast(env.Update)
		}
	}
}
