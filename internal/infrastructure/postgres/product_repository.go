package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const variantColumns = `
	v.id, v.product_id, v.label, v.size, v.attributes, v.position, v.price,
	v.inventory, v.low_stock_threshold, v.allow_backorder, v.restock_date, v.updated_at`

// GetByID obtiene un producto con todas sus variantes. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	products, err := r.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return products[0], nil
}

// GetByIDs carga varios productos con sus variantes en un solo round-trip.
// Productos inexistentes simplemente no aparecen en el resultado.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT p.id, p.name, p.price, p.created_at, p.updated_at, ` + variantColumns + `
		FROM products p
		JOIN product_variants v ON v.product_id = p.id
		WHERE p.id = ANY($1)
		ORDER BY p.id, v.position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*entity.Product)
	var order []string
	for rows.Next() {
		var p entity.Product
		var v entity.ProductVariant
		var restock *time.Time
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt,
			&v.ID, &v.ProductID, &v.Label, &v.Size, &v.Attributes, &v.Position, &v.Price,
			&v.Inventory, &v.LowStockThreshold, &v.AllowBackorder, &restock, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		v.RestockDate = restock
		existing, ok := byID[p.ID]
		if !ok {
			existing = &p
			byID[p.ID] = existing
			order = append(order, p.ID)
		}
		existing.Variants = append(existing.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]*entity.Product, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}
	return result, nil
}

// List devuelve productos paginados con variantes (dashboard admin).
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.GetByIDs(ctx, ids)
}

// Metrics agrega las métricas de inventario en un solo round-trip.
// TotalReserved se calcula aparte contra las reservas vigentes.
func (r *ProductRepo) Metrics(ctx context.Context) (*repository.InventoryMetrics, error) {
	var m repository.InventoryMetrics
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(DISTINCT v.product_id),
			COALESCE(SUM(v.inventory * v.price), 0),
			COUNT(*) FILTER (WHERE v.inventory <= 0 AND NOT v.allow_backorder),
			COUNT(*) FILTER (WHERE v.inventory > 0 AND v.inventory <= v.low_stock_threshold)
		FROM product_variants v`).Scan(
		&m.TotalProducts, &m.TotalValue, &m.OutOfStockCount, &m.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory metrics: %w", err)
	}
	return &m, nil
}

// ListOutOfStock devuelve las variantes agotadas (sin backorder).
func (r *ProductRepo) ListOutOfStock(ctx context.Context) ([]repository.OutOfStockItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, v.id, v.label, v.inventory, to_char(v.restock_date, 'YYYY-MM-DD')
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.inventory <= 0 AND NOT v.allow_backorder
		ORDER BY p.name, v.position`)
	if err != nil {
		return nil, fmt.Errorf("list out of stock: %w", err)
	}
	defer rows.Close()
	var list []repository.OutOfStockItem
	for rows.Next() {
		var item repository.OutOfStockItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.VariantID,
			&item.Label, &item.Inventory, &item.RestockDate); err != nil {
			return nil, fmt.Errorf("scan out of stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
