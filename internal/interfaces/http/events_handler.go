package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/realtime"
	"github.com/valyala/fasthttp"
)

// EventsHandler expone el stream de eventos inventory:update por SSE.
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler construye el handler.
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary      Stream SSE de eventos inventory:update de un producto
// @Description  Entrega best-effort, at-most-once: un evento perdido se corrige
//               en el siguiente refetch del cliente.
// @Tags         inventory
// @Produce      text/event-stream
// @Param        product_id  query  string  true  "ID del producto a seguir"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stream [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := h.hub.Subscribe(productID)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(sub)
		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()
		for {
			select {
			case update, ok := <-sub.C:
				if !ok {
					return
				}
				data, err := json.Marshal(update)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: inventory:update\ndata: %s\n\n", data)
				if err := w.Flush(); err != nil {
					// cliente desconectado
					return
				}
			case <-keepalive.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
