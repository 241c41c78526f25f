package realtime

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// Sink recibe eventos de stock fuera del proceso (canal redis, invalidación de
// cache). Sus errores se registran y se descartan: la difusión no tiene
// garantía de durabilidad.
type Sink interface {
	Deliver(ctx context.Context, update entity.StockUpdate) error
}

// Broadcaster desacopla la ruta de escritura del fan-out: Publish encola y
// retorna; un worker drena la cola hacia el hub local y los sinks.
type Broadcaster struct {
	queue chan entity.StockUpdate
	hub   *Hub
	sinks []Sink
	log   *logger.Logger
}

// NewBroadcaster construye el broadcaster con el tamaño de cola indicado.
func NewBroadcaster(hub *Hub, queueSize int, log *logger.Logger, sinks ...Sink) *Broadcaster {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Broadcaster{
		queue: make(chan entity.StockUpdate, queueSize),
		hub:   hub,
		sinks: sinks,
		log:   log,
	}
}

// Publish encola el evento sin bloquear. Con la cola llena el evento se
// descarta: un evento perdido se corrige en el siguiente poll del cliente,
// mientras que bloquear la ruta de escritura no se corrige solo.
func (b *Broadcaster) Publish(update entity.StockUpdate) {
	select {
	case b.queue <- update:
	default:
		b.log.Warn().
			Str("product_id", update.ProductID).
			Str("variant_id", update.VariantID).
			Msg("cola de eventos llena: evento descartado")
	}
}

// Start drena la cola hasta que el contexto se cancele. Lanzar como goroutine.
func (b *Broadcaster) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-b.queue:
			b.fanOut(ctx, update)
		}
	}
}

func (b *Broadcaster) fanOut(ctx context.Context, update entity.StockUpdate) {
	delivered := b.hub.Broadcast(update)
	for _, sink := range b.sinks {
		if err := sink.Deliver(ctx, update); err != nil {
			b.log.Warn().Err(err).
				Str("product_id", update.ProductID).
				Msg("entrega de evento a sink falló")
		}
	}
	b.log.Debug().
		Str("product_id", update.ProductID).
		Str("variant_id", update.VariantID).
		Int("subscribers", delivered).
		Str("status", update.StockStatus).
		Msg("evento de stock difundido")
}

// Hub expone el hub local para los handlers de suscripción.
func (b *Broadcaster) Hub() *Hub {
	return b.hub
}
