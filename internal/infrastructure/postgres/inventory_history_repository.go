package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*InventoryHistoryRepo)(nil)

// InventoryHistoryRepo implementación append-only sobre PostgreSQL.
// No expone UPDATE ni DELETE.
type InventoryHistoryRepo struct {
	q Querier
}

// NewInventoryHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryHistoryRepository(q Querier) *InventoryHistoryRepo {
	return &InventoryHistoryRepo{q: q}
}

// Append persiste un registro de ajuste. Se invoca dentro de la misma transacción
// que la mutación de stock: libro y historial no pueden divergir.
func (r *InventoryHistoryRepo) Append(ctx context.Context, rec *entity.InventoryHistory) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO inventory_history
			(id, product_id, variant_id, previous_quantity, new_quantity, adjustment, reason, user_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	userID := (*string)(nil)
	if rec.UserID != "" {
		userID = &rec.UserID
	}
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ProductID, rec.VariantID, rec.PreviousQuantity, rec.NewQuantity,
		rec.Adjustment, rec.Reason, userID, rec.Metadata, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append inventory history: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto (opcionalmente una variante)
// en un rango de fechas, paginado.
func (r *InventoryHistoryRepo) ListByProduct(ctx context.Context, productID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryHistory, error) {
	query := `
		SELECT id, product_id, variant_id, previous_quantity, new_quantity, adjustment, reason, COALESCE(user_id, ''), metadata, created_at
		FROM inventory_history WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if variantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, variantID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory history: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryHistory
	for rows.Next() {
		var h entity.InventoryHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.VariantID, &h.PreviousQuantity,
			&h.NewQuantity, &h.Adjustment, &h.Reason, &h.UserID, &h.Metadata, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// Turnover agrega movimientos por producto/variante/motivo en el rango dado.
// Lee solo el historial; nunca toca la ruta caliente de consistencia.
func (r *InventoryHistoryRepo) Turnover(ctx context.Context, from, to time.Time) ([]repository.TurnoverRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, variant_id, reason, COUNT(*), COALESCE(SUM(adjustment), 0)
		FROM inventory_history
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY product_id, variant_id, reason
		ORDER BY product_id, variant_id, reason`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("inventory turnover: %w", err)
	}
	defer rows.Close()
	var list []repository.TurnoverRow
	for rows.Next() {
		var t repository.TurnoverRow
		if err := rows.Scan(&t.ProductID, &t.VariantID, &t.Reason, &t.Movements, &t.TotalDelta); err != nil {
			return nil, fmt.Errorf("scan turnover row: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
