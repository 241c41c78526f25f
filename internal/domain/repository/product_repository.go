package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryMetrics agrega métricas de inventario para el dashboard admin.
type InventoryMetrics struct {
	TotalProducts   int
	TotalValue      decimal.Decimal // sum(inventario * precio de variante)
	OutOfStockCount int
	LowStockCount   int
	TotalReserved   int
}

// OutOfStockItem es una variante sin stock disponible, para el reporte admin.
type OutOfStockItem struct {
	ProductID   string
	ProductName string
	VariantID   string
	Label       string
	Inventory   int
	RestockDate *string
}

// ProductRepository define el puerto de lectura de catálogo con variantes.
// Devuelve nil (sin error) cuando el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs carga varios productos con sus variantes en un solo round-trip.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Metrics(ctx context.Context) (*InventoryMetrics, error)
	ListOutOfStock(ctx context.Context) ([]OutOfStockItem, error)
}
