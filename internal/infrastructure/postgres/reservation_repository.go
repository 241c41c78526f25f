package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
// Todas las sumas filtran por expires_at en la consulta: una reserva vencida
// pero aún no purgada por el sweeper no cuenta jamás.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Upsert crea o reemplaza la reserva de (session_id, product_id, variant_id).
// ON CONFLICT sustituye cantidad y expiración: re-reservar nunca acumula.
func (r *ReservationRepo) Upsert(ctx context.Context, res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_reservations
			(id, session_id, user_id, product_id, variant_id, quantity, type, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (session_id, product_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, type = EXCLUDED.type,
			expires_at = EXCLUDED.expires_at, updated_at = now()
		RETURNING id, created_at, updated_at`
	userID := (*string)(nil)
	if res.UserID != "" {
		userID = &res.UserID
	}
	err := r.q.QueryRow(ctx, query,
		res.ID, res.SessionID, userID, res.ProductID, res.VariantID,
		res.Quantity, res.Type, res.ExpiresAt,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID. Devuelve nil si no existe.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `
		SELECT id, session_id, COALESCE(user_id, ''), product_id, variant_id, quantity, type, expires_at, created_at, updated_at
		FROM inventory_reservations WHERE id = $1`
	var res entity.Reservation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.SessionID, &res.UserID, &res.ProductID, &res.VariantID,
		&res.Quantity, &res.Type, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// DeleteByID elimina una reserva concreta (compra completada o línea quitada).
func (r *ReservationRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM inventory_reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// DeleteBySessionProduct elimina la reserva de una sesión sobre un producto/variante.
func (r *ReservationRepo) DeleteBySessionProduct(ctx context.Context, sessionID, productID, variantID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM inventory_reservations WHERE session_id = $1 AND product_id = $2 AND variant_id = $3`,
		sessionID, productID, variantID)
	if err != nil {
		return fmt.Errorf("delete reservation by session: %w", err)
	}
	return nil
}

// SumActive suma las cantidades reservadas no expiradas de una variante.
func (r *ReservationRepo) SumActive(ctx context.Context, productID, variantID string, now time.Time) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_reservations
		WHERE product_id = $1 AND variant_id = $2 AND expires_at > $3`,
		productID, variantID, now).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum active reservations: %w", err)
	}
	return sum, nil
}

// SumActiveBatch agrupa las sumas de varias variantes en un solo round-trip.
// Las variantes sin reservas vigentes simplemente no aparecen en el mapa.
func (r *ReservationRepo) SumActiveBatch(ctx context.Context, keys []repository.VariantKey, now time.Time) (map[repository.VariantKey]int, error) {
	result := make(map[repository.VariantKey]int, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	productIDs := make([]string, 0, len(keys))
	variantIDs := make([]string, 0, len(keys))
	for _, k := range keys {
		productIDs = append(productIDs, k.ProductID)
		variantIDs = append(variantIDs, k.VariantID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, variant_id, COALESCE(SUM(quantity), 0)
		FROM inventory_reservations
		WHERE product_id = ANY($1) AND variant_id = ANY($2) AND expires_at > $3
		GROUP BY product_id, variant_id`,
		productIDs, variantIDs, now)
	if err != nil {
		return nil, fmt.Errorf("sum active batch: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k repository.VariantKey
		var sum int
		if err := rows.Scan(&k.ProductID, &k.VariantID, &sum); err != nil {
			return nil, fmt.Errorf("scan reservation sum: %w", err)
		}
		result[k] = sum
	}
	return result, rows.Err()
}

// SumActiveTotal suma todo lo reservado vigente (métricas admin).
func (r *ReservationRepo) SumActiveTotal(ctx context.Context, now time.Time) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory_reservations WHERE expires_at > $1`,
		now).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum total reservations: %w", err)
	}
	return sum, nil
}

// DeleteExpired purga las reservas vencidas. Lo invoca el sweeper; la corrección
// del sistema nunca depende de que este barrido haya corrido.
func (r *ReservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_reservations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}
