package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	domaininv "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ValidateStockUseCase valida lotes de cantidades solicitadas contra el stock
// disponible (inventario - reservado vigente). Fail-safe, no fail-fast: el fallo
// de un ítem no aborta la validación de los demás porque el checkout necesita
// la foto completa.
type ValidateStockUseCase struct {
	productRepo     repository.ProductRepository
	reservationRepo repository.ReservationRepository
	cache           DisplayCache
	log             *logger.Logger
	now             func() time.Time
}

// NewValidateStockUseCase construye el validador.
func NewValidateStockUseCase(
	productRepo repository.ProductRepository,
	reservationRepo repository.ReservationRepository,
	cache DisplayCache,
	log *logger.Logger,
) *ValidateStockUseCase {
	return &ValidateStockUseCase{
		productRepo:     productRepo,
		reservationRepo: reservationRepo,
		cache:           cache,
		log:             log,
		now:             time.Now,
	}
}

// BatchItem es una línea a validar.
type BatchItem struct {
	ProductID  string
	VariantID  string
	Quantity   int
	Label      string
	Size       string
	Attributes json.RawMessage
}

// ValidatedProduct es el veredicto por línea.
type ValidatedProduct struct {
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	HasStock          bool            `json:"has_stock"`
	AvailableStock    int             `json:"available_stock"`
	RequestedQuantity int             `json:"requested_quantity"`
	ProductName       string          `json:"product_name,omitempty"`
	VariantDetails    json.RawMessage `json:"variant_details,omitempty"`
}

// BatchValidate valida todas las líneas con lecturas agrupadas (productos y
// reservas en un round-trip cada una). Un ítem ilegible se reporta sin stock
// (AvailableStock=0) y el resto continúa.
func (uc *ValidateStockUseCase) BatchValidate(ctx context.Context, items []BatchItem) ([]ValidatedProduct, error) {
	results := make([]ValidatedProduct, 0, len(items))
	if len(items) == 0 {
		return results, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; !ok {
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}

	byID := make(map[string]*entity.Product, len(ids))
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		// Lectura agrupada caída: los ítems se reportarán individualmente sin stock.
		uc.log.Warn().Err(err).Msg("lectura agrupada de productos falló")
	}
	for _, p := range products {
		byID[p.ID] = p
	}

	// Resolver variantes primero para agrupar el conteo de reservas.
	type resolved struct {
		item    BatchItem
		product *entity.Product
		variant *entity.ProductVariant
	}
	resolvedItems := make([]resolved, 0, len(items))
	var keys []repository.VariantKey
	for _, it := range items {
		r := resolved{item: it, product: byID[it.ProductID]}
		if r.product != nil {
			if v, ok := domaininv.ResolveVariant(r.product, domaininv.VariantQuery{
				VariantID:  it.VariantID,
				Label:      it.Label,
				Size:       it.Size,
				Attributes: it.Attributes,
			}); ok {
				r.variant = v
				keys = append(keys, repository.VariantKey{ProductID: r.product.ID, VariantID: v.ID})
			}
		}
		resolvedItems = append(resolvedItems, r)
	}

	reserved, err := uc.reservationRepo.SumActiveBatch(ctx, keys, uc.now())
	if err != nil {
		// Sin conteo de reservas no se puede afirmar disponibilidad: tratar como 0 disponible.
		uc.log.Warn().Err(err).Msg("conteo agrupado de reservas falló")
		reserved = nil
	}

	for _, r := range resolvedItems {
		vp := ValidatedProduct{
			ProductID:         r.item.ProductID,
			VariantID:         r.item.VariantID,
			RequestedQuantity: r.item.Quantity,
		}
		if r.product == nil || r.variant == nil || (err != nil) {
			results = append(results, vp)
			continue
		}
		vp.ProductName = r.product.Name
		vp.VariantID = r.variant.ID
		vp.VariantDetails = r.variant.Attributes

		key := repository.VariantKey{ProductID: r.product.ID, VariantID: r.variant.ID}
		available := r.variant.Inventory - reserved[key]
		if available < 0 {
			// Violación transitoria tolerada en los datos, nunca en el veredicto.
			available = 0
		}
		vp.AvailableStock = available
		if r.variant.AllowBackorder {
			vp.HasStock = true
		} else {
			vp.HasStock = available >= r.item.Quantity
		}
		results = append(results, vp)
	}
	return results, nil
}

// Adjustment es la corrección propuesta para una línea de carrito.
type Adjustment struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	RequestedQty   int    `json:"requested_quantity"`
	AdjustedQty    int    `json:"adjusted_quantity"` // 0 => quitar la línea
	AvailableStock int    `json:"available_stock"`
	RemoveLine     bool   `json:"remove_line"`
	ProductName    string `json:"product_name,omitempty"`
}

// CheckAdjustments compara pedido vs. disponible y propone reducir o quitar
// líneas. Nunca muta estado: es consultivo para la auto-corrección del carrito.
func (uc *ValidateStockUseCase) CheckAdjustments(ctx context.Context, items []BatchItem) ([]Adjustment, error) {
	validated, err := uc.BatchValidate(ctx, items)
	if err != nil {
		return nil, err
	}
	var adjustments []Adjustment
	for _, vp := range validated {
		if vp.HasStock {
			continue
		}
		adj := Adjustment{
			ProductID:      vp.ProductID,
			VariantID:      vp.VariantID,
			RequestedQty:   vp.RequestedQuantity,
			AvailableStock: vp.AvailableStock,
			ProductName:    vp.ProductName,
		}
		if vp.AvailableStock <= 0 {
			adj.RemoveLine = true
		} else {
			adj.AdjustedQty = vp.AvailableStock
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

// CheckAvailability responde la consulta puntual de disponibilidad.
func (uc *ValidateStockUseCase) CheckAvailability(ctx context.Context, productID, variantID string, quantity int) (*ValidatedProduct, error) {
	if productID == "" || quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	results, err := uc.BatchValidate(ctx, []BatchItem{{ProductID: productID, VariantID: variantID, Quantity: quantity}})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// GetProductInventory arma la vista de display de una variante, pasando por el
// cache read-through. El cache jamás decide una compra; solo ahorra lecturas
// de display.
func (uc *ValidateStockUseCase) GetProductInventory(ctx context.Context, productID, variantID string) (*InventoryInfo, error) {
	if info, ok := uc.cache.GetInventory(ctx, productID, variantID); ok {
		return info, nil
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	variant, ok := domaininv.ResolveVariant(product, domaininv.VariantQuery{VariantID: variantID})
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	reserved, err := uc.reservationRepo.SumActive(ctx, product.ID, variant.ID, uc.now())
	if err != nil {
		return nil, err
	}
	available := variant.Inventory - reserved
	if available < 0 {
		available = 0
	}
	info := &InventoryInfo{
		ProductID:         product.ID,
		VariantID:         variant.ID,
		CurrentStock:      variant.Inventory,
		ReservedStock:     reserved,
		AvailableStock:    available,
		StockStatus:       variant.StockStatus(available),
		LowStockThreshold: variant.LowStockThreshold,
		AllowBackorder:    variant.AllowBackorder,
		RestockDate:       variant.RestockDate,
	}
	uc.cache.SetInventory(ctx, productID, variantID, info)
	return info, nil
}
