package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Adjust aplica el delta con un solo UPDATE condicional: el motor evalúa
// la condición y escribe en la misma operación, así dos escritores concurrentes
// nunca pueden ambos pasar una condición que su efecto combinado violaría.
// Cero filas afectadas => Success=false, sin error.
func (r *StockRepo) Adjust(ctx context.Context, variantID string, delta, minResulting int) (repository.AdjustResult, error) {
	query := `
		UPDATE product_variants
		SET inventory = inventory + $2, updated_at = now()
		WHERE id = $1 AND inventory + $2 >= $3
		RETURNING inventory - $2, inventory`
	var res repository.AdjustResult
	err := r.q.QueryRow(ctx, query, variantID, delta, minResulting).Scan(
		&res.PreviousQuantity, &res.NewQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Condición no cumplida: stock insuficiente o perdió la carrera.
			return repository.AdjustResult{Success: false}, nil
		}
		return repository.AdjustResult{}, markIfTransient(fmt.Errorf("adjust stock: %w", err))
	}
	res.Success = true
	return res, nil
}

// GetQuantity lee el inventario actual de la variante (solo display/validación).
func (r *StockRepo) GetQuantity(ctx context.Context, variantID string) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx, `SELECT inventory FROM product_variants WHERE id = $1`, variantID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrVariantNotFound
		}
		return 0, fmt.Errorf("get quantity: %w", err)
	}
	return qty, nil
}
