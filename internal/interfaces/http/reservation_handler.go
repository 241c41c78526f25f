package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
)

// ReservationHandler maneja las retenciones de stock de carritos y checkouts.
type ReservationHandler struct {
	uc *inventory.ReservationUseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *inventory.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Crear o renovar una reserva de stock
// @Description  Idempotente por (session_id, product_id, variant_id): re-reservar
//               sustituye cantidad y expiración.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "session_id, product_id, quantity, type (cart|checkout)"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var req dto.ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Reserve(c.Context(), inventory.ReserveInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Type:      req.Type,
	})
	if err != nil {
		return errorStatus(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation_id": res.ID,
		"product_id":     res.ProductID,
		"variant_id":     res.VariantID,
		"quantity":       res.Quantity,
		"type":           res.Type,
		"expires_at":     res.ExpiresAt,
	})
}

// Release godoc
// @Summary      Liberar una reserva
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseRequest  true  "reservation_id, o session_id + product_id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [delete]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	var req dto.ReleaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Release(c.Context(), req.ReservationID, req.SessionID, req.ProductID, req.VariantID); err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// CurrentlyReserved godoc
// @Summary      Total reservado vigente de una variante
// @Tags         reservations
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de la variante (vacío = por defecto)"
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/reservations/count [get]
func (h *ReservationHandler) CurrentlyReserved(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	variantID := c.Query("variant_id")
	count, err := h.uc.CurrentlyReserved(c.Context(), productID, variantID)
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "variant_id": variantID, "reserved": count})
}
