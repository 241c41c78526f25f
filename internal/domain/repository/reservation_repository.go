package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// VariantKey identifica una variante concreta para conteos agrupados.
type VariantKey struct {
	ProductID string
	VariantID string
}

// ReservationRepository define el puerto de persistencia de reservas.
// Toda lectura de "reservado" filtra por expires_at > now en la consulta:
// una reserva vencida pero aún no purgada no cuenta.
type ReservationRepository interface {
	// Upsert crea o reemplaza la reserva de (session_id, product_id, variant_id).
	// Re-reservar sustituye cantidad y expiración, nunca acumula.
	Upsert(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteBySessionProduct(ctx context.Context, sessionID, productID, variantID string) error
	// SumActive suma las cantidades reservadas no expiradas de una variante.
	SumActive(ctx context.Context, productID, variantID string, now time.Time) (int, error)
	// SumActiveBatch agrupa las sumas de varias variantes en un round-trip.
	SumActiveBatch(ctx context.Context, keys []VariantKey, now time.Time) (map[VariantKey]int, error)
	// SumActiveTotal suma todo lo reservado vigente (métricas).
	SumActiveTotal(ctx context.Context, now time.Time) (int, error)
	// DeleteExpired purga reservas vencidas; lo invoca el sweeper periódico.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
