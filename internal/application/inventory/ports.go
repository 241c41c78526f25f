package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que la mutación de stock y su registro de historial
// se persistan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		historyRepo repository.InventoryHistoryRepository,
	) error) error
}

// StockPublisher recibe eventos de cambio de stock. La publicación es
// fire-and-forget: nunca bloquea ni hace fallar la ruta de escritura.
type StockPublisher interface {
	Publish(update entity.StockUpdate)
}

// InventoryInfo es la vista de display del inventario de una variante.
type InventoryInfo struct {
	ProductID         string     `json:"product_id"`
	VariantID         string     `json:"variant_id"`
	CurrentStock      int        `json:"current_stock"`
	ReservedStock     int        `json:"reserved_stock"`
	AvailableStock    int        `json:"available_stock"`
	StockStatus       string     `json:"stock_status"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	AllowBackorder    bool       `json:"allow_backorder"`
	RestockDate       *time.Time `json:"restock_date,omitempty"`
}

// DisplayCache es el cache read-through de InventoryInfo. Solo para display:
// jamás es autoritativo para una decisión de compra. El adaptador traga sus
// propios errores (un cache caído degrada a leer de la BD).
type DisplayCache interface {
	GetInventory(ctx context.Context, productID, variantID string) (*InventoryInfo, bool)
	SetInventory(ctx context.Context, productID, variantID string, info *InventoryInfo)
	Invalidate(ctx context.Context, productID, variantID string)
}
