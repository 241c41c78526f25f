package realtime

import (
	"sync"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Subscription es la suscripción de un cliente a los eventos de un producto.
type Subscription struct {
	C         <-chan entity.StockUpdate
	productID string
	ch        chan entity.StockUpdate
}

// Hub reparte eventos de stock a los suscriptores en proceso, por producto.
// Entrega at-most-once: un suscriptor lento pierde el evento (el canal no
// bloquea jamás al emisor) y se corrige en su siguiente refetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{} // productID -> suscripciones
}

// NewHub construye el hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registra un suscriptor a los eventos de un producto.
func (h *Hub) Subscribe(productID string) *Subscription {
	ch := make(chan entity.StockUpdate, 8)
	sub := &Subscription{C: ch, productID: productID, ch: ch}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[productID] == nil {
		h.subs[productID] = make(map[*Subscription]struct{})
	}
	h.subs[productID][sub] = struct{}{}
	return sub
}

// Unsubscribe retira la suscripción y cierra su canal.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.productID]
	if set == nil {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.productID)
	}
	close(sub.ch)
}

// Broadcast entrega el evento a los suscriptores del producto sin bloquear.
// Devuelve cuántos lo recibieron.
func (h *Hub) Broadcast(update entity.StockUpdate) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for sub := range h.subs[update.ProductID] {
		select {
		case sub.ch <- update:
			delivered++
		default:
			// suscriptor lento: evento descartado
		}
	}
	return delivered
}

// SubscriberCount cuenta los suscriptores de un producto.
func (h *Hub) SubscriberCount(productID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[productID])
}
