package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// MetricsUseCase arma los reportes admin: métricas agregadas, agotados y
// rotación. Lee catálogo, reservas vigentes e historial; jamás toca la ruta
// caliente de consistencia.
type MetricsUseCase struct {
	productRepo     repository.ProductRepository
	reservationRepo repository.ReservationRepository
	historyRepo     repository.InventoryHistoryRepository
	now             func() time.Time
}

// NewMetricsUseCase construye el caso de uso de reportes.
func NewMetricsUseCase(
	productRepo repository.ProductRepository,
	reservationRepo repository.ReservationRepository,
	historyRepo repository.InventoryHistoryRepository,
) *MetricsUseCase {
	return &MetricsUseCase{
		productRepo:     productRepo,
		reservationRepo: reservationRepo,
		historyRepo:     historyRepo,
		now:             time.Now,
	}
}

// Products lista el catálogo paginado con variantes (dashboard admin).
func (uc *MetricsUseCase) Products(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(ctx, limit, offset)
}

// Metrics agrega las métricas de inventario más el total reservado vigente.
func (uc *MetricsUseCase) Metrics(ctx context.Context) (*repository.InventoryMetrics, error) {
	m, err := uc.productRepo.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	reserved, err := uc.reservationRepo.SumActiveTotal(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	m.TotalReserved = reserved
	return m, nil
}

// OutOfStock lista las variantes agotadas sin backorder.
func (uc *MetricsUseCase) OutOfStock(ctx context.Context) ([]repository.OutOfStockItem, error) {
	return uc.productRepo.ListOutOfStock(ctx)
}

// Turnover agrega el historial por motivo en el rango dado.
func (uc *MetricsUseCase) Turnover(ctx context.Context, from, to time.Time) ([]repository.TurnoverRow, error) {
	if !to.After(from) {
		return nil, domain.ErrInvalidInput
	}
	return uc.historyRepo.Turnover(ctx, from, to)
}

// History pagina el historial de ajustes de un producto.
func (uc *MetricsUseCase) History(ctx context.Context, productID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryHistory, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.historyRepo.ListByProduct(ctx, productID, variantID, from, to, limit, offset)
}
