package entity

import "time"

// Tipos de reserva de inventario.
const (
	ReservationTypeCart     = "cart"     // reserva de carrito, TTL largo
	ReservationTypeCheckout = "checkout" // reserva de checkout, TTL corto
)

// Reservation es una retención temporal de stock para un carrito o checkout en curso.
// La expiración la aplica la capa de almacenamiento (sweep periódico); ningún código
// de aplicación corre al expirar, así que los conteos derivados deben filtrar por
// expires_at en el momento de la lectura.
type Reservation struct {
	ID        string
	SessionID string
	UserID    string
	ProductID string
	VariantID string
	Quantity  int
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired indica si la reserva ya venció en el instante dado.
func (r Reservation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
