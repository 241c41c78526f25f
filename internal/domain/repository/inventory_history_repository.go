package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// TurnoverRow agrega movimientos de un producto por motivo en un rango de fechas.
type TurnoverRow struct {
	ProductID  string
	VariantID  string
	Reason     string
	Movements  int
	TotalDelta int
}

// InventoryHistoryRepository define el puerto del historial append-only.
// No expone update ni delete: el historial solo crece.
type InventoryHistoryRepository interface {
	// Append persiste un registro; solo lo invoca la mutación de stock dentro
	// de su misma transacción.
	Append(ctx context.Context, record *entity.InventoryHistory) error
	ListByProduct(ctx context.Context, productID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryHistory, error)
	Turnover(ctx context.Context, from, to time.Time) ([]TurnoverRow, error)
}
