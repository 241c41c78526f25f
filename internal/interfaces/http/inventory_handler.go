package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario.
type InventoryHandler struct {
	adjust   *inventory.AdjustStockUseCase
	validate *inventory.ValidateStockUseCase
	metrics  *inventory.MetricsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjust *inventory.AdjustStockUseCase,
	validate *inventory.ValidateStockUseCase,
	metrics *inventory.MetricsUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, validate: validate, metrics: metrics}
}

// errorStatus mapea errores de dominio a respuestas HTTP.
func errorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrVariantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "VARIANT_NOT_FOUND", Message: "variante no encontrada"})
	case errors.Is(err, domain.ErrReservationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "RESERVATION_NOT_FOUND", Message: "reserva no encontrada"})
	case errors.Is(err, domain.ErrInventoryLockFailed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVENTORY_LOCK_FAILED", Message: "no se pudo actualizar el inventario, intente de nuevo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// CheckAvailability godoc
// @Summary      Consultar disponibilidad de una variante
// @Tags         inventory
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de la variante (vacío = por defecto)"
// @Param        quantity    query  int     false  "Cantidad solicitada (por defecto 1)"
// @Success      200  {object}  dto.CheckAvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	quantity := c.QueryInt("quantity", 1)
	result, err := h.validate.CheckAvailability(c.Context(), productID, c.Query("variant_id"), quantity)
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(dto.CheckAvailabilityResponse{
		IsAvailable:       result.HasStock,
		AvailableStock:    result.AvailableStock,
		RequestedQuantity: result.RequestedQuantity,
	})
}

// GetProductInventory godoc
// @Summary      Vista de inventario de un producto/variante
// @Tags         inventory
// @Produce      json
// @Param        id          path   string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de la variante (vacío = por defecto)"
// @Success      200  {object}  inventory.InventoryInfo
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id} [get]
func (h *InventoryHandler) GetProductInventory(c *fiber.Ctx) error {
	info, err := h.validate.GetProductInventory(c.Context(), c.Params("id"), c.Query("variant_id"))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(info)
}

// BatchValidate godoc
// @Summary      Validar un lote de cantidades contra el stock disponible
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateRequest  true  "items a validar"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/validate [post]
func (h *InventoryHandler) BatchValidate(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	validated, err := h.validate.BatchValidate(c.Context(), toBatchItems(req.Items))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"validated_products": validated})
}

// CheckAdjustments godoc
// @Summary      Proponer correcciones de carrito (consultivo, no muta estado)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateRequest  true  "items del carrito"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/check [post]
func (h *InventoryHandler) CheckAdjustments(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adjustments, err := h.validate.CheckAdjustments(c.Context(), toBatchItems(req.Items))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"adjustments": adjustments})
}

// UpdateInventory godoc
// @Summary      Ajustar inventario (admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "product_id, variant_id, adjustment, reason"
// @Success      200  {object}  dto.AdjustResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	var req dto.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.adjust.Adjust(c.Context(), inventory.AdjustInput{
		ProductID:  req.ProductID,
		VariantID:  req.VariantID,
		Adjustment: req.Adjustment,
		Reason:     req.Reason,
		UserID:     GetUserID(c),
		Metadata:   req.Metadata,
	})
	if err != nil {
		return errorStatus(c, err)
	}
	resp := toAdjustResponse(out)
	if !out.Success {
		resp.Error = &dto.ErrorResponse{
			Code:    "INSUFFICIENT_INVENTORY",
			Message: "stock insuficiente para aplicar el ajuste",
			Items: []dto.InsufficientItem{{
				ProductID:      out.ProductID,
				VariantID:      out.VariantID,
				RequestedQty:   -req.Adjustment,
				AvailableStock: out.AvailableStock,
			}},
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	}
	return c.JSON(resp)
}

// BulkUpdateInventory godoc
// @Summary      Ajustes en lote; cada ítem triunfa o falla por su cuenta (admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAdjustRequest  true  "updates"
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/adjust/bulk [post]
func (h *InventoryHandler) BulkUpdateInventory(c *fiber.Ctx) error {
	var req dto.BulkAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inputs := make([]inventory.AdjustInput, 0, len(req.Updates))
	for _, u := range req.Updates {
		inputs = append(inputs, inventory.AdjustInput{
			ProductID:  u.ProductID,
			VariantID:  u.VariantID,
			Adjustment: u.Adjustment,
			Reason:     u.Reason,
			UserID:     GetUserID(c),
			Metadata:   u.Metadata,
		})
	}
	results := h.adjust.BulkAdjust(c.Context(), inputs)
	out := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		item := fiber.Map{"product_id": r.Input.ProductID, "variant_id": r.Input.VariantID}
		switch {
		case r.Err != nil:
			item["success"] = false
			item["error"] = r.Err.Error()
		default:
			item["success"] = r.Output.Success
			item["result"] = toAdjustResponse(r.Output)
		}
		out = append(out, item)
	}
	return c.JSON(fiber.Map{"results": out})
}

// GetProducts godoc
// @Summary      Listado paginado del catálogo con inventario por variante (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo por página (por defecto 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/products [get]
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	products, err := h.metrics.Products(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorStatus(c, err)
	}
	out := make([]dto.ProductSummary, 0, len(products))
	for _, p := range products {
		summary := dto.ProductSummary{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.StringFixed(2),
			Variants: make([]dto.VariantSummary, 0, len(p.Variants)),
		}
		for _, v := range p.Variants {
			summary.Variants = append(summary.Variants, dto.VariantSummary{
				ID:                v.ID,
				Label:             v.Label,
				Size:              v.Size,
				Inventory:         v.Inventory,
				LowStockThreshold: v.LowStockThreshold,
				AllowBackorder:    v.AllowBackorder,
			})
		}
		out = append(out, summary)
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

// GetInventoryMetrics godoc
// @Summary      Métricas agregadas de inventario (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/inventory/metrics [get]
func (h *InventoryHandler) GetInventoryMetrics(c *fiber.Ctx) error {
	m, err := h.metrics.Metrics(c.Context())
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(dto.MetricsResponse{
		TotalProducts:   m.TotalProducts,
		TotalValue:      m.TotalValue.StringFixed(2),
		OutOfStockCount: m.OutOfStockCount,
		LowStockCount:   m.LowStockCount,
		TotalReserved:   m.TotalReserved,
	})
}

// GetOutOfStockProducts godoc
// @Summary      Variantes agotadas sin backorder (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/out-of-stock [get]
func (h *InventoryHandler) GetOutOfStockProducts(c *fiber.Ctx) error {
	items, err := h.metrics.OutOfStock(c.Context())
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "products": items})
}

// GetInventoryTurnover godoc
// @Summary      Rotación de inventario por motivo en un rango de fechas (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "fecha inicial (RFC 3339 o YYYY-MM-DD)"
// @Param        to    query  string  true  "fecha final"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/turnover [get]
func (h *InventoryHandler) GetInventoryTurnover(c *fiber.Ctx) error {
	from, err1 := parseDate(c.Query("from"))
	to, err2 := parseDate(c.Query("to"))
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas (RFC 3339 o YYYY-MM-DD)"})
	}
	rows, err := h.metrics.Turnover(c.Context(), from, to)
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"from": from, "to": to, "turnover": rows})
}

// GetInventoryHistory godoc
// @Summary      Historial de ajustes de un producto, paginado (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) GetInventoryHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		if t, err := parseDate(s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := parseDate(s); err == nil {
			to = &t
		}
	}
	records, err := h.metrics.History(c.Context(), c.Params("id"), c.Query("variant_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return errorStatus(c, err)
	}
	out := make([]dto.HistoryRecord, 0, len(records))
	for _, r := range records {
		out = append(out, toHistoryRecord(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "records": out})
}

func toBatchItems(items []dto.ValidateItem) []inventory.BatchItem {
	batch := make([]inventory.BatchItem, 0, len(items))
	for _, it := range items {
		batch = append(batch, inventory.BatchItem{
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			Label:      it.Label,
			Size:       it.Size,
			Attributes: it.Attributes,
		})
	}
	return batch
}

func toAdjustResponse(out *inventory.AdjustOutput) dto.AdjustResponse {
	resp := dto.AdjustResponse{
		Success:          out.Success,
		ProductID:        out.ProductID,
		VariantID:        out.VariantID,
		PreviousQuantity: out.PreviousQuantity,
		NewQuantity:      out.NewQuantity,
		AvailableStock:   out.AvailableStock,
	}
	if out.HistoryRecord != nil {
		rec := toHistoryRecord(out.HistoryRecord)
		resp.HistoryRecord = &rec
	}
	return resp
}

func toHistoryRecord(r *entity.InventoryHistory) dto.HistoryRecord {
	return dto.HistoryRecord{
		ID:               r.ID,
		ProductID:        r.ProductID,
		VariantID:        r.VariantID,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		Adjustment:       r.Adjustment,
		Reason:           r.Reason,
		UserID:           r.UserID,
		Metadata:         r.Metadata,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
