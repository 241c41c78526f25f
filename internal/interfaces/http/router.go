package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustUC      *inventory.AdjustStockUseCase
	ValidateUC    *inventory.ValidateStockUseCase
	ReservationUC *inventory.ReservationUseCase
	MetricsUC     *inventory.MetricsUseCase
	Hub           *realtime.Hub
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	inv := api.Group("/inventory")

	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.ValidateUC, deps.MetricsUC)
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	eventsHandler := NewEventsHandler(deps.Hub)

	// Lecturas públicas del storefront
	inv.Get("/availability", inventoryHandler.CheckAvailability)
	inv.Get("/products/:id", inventoryHandler.GetProductInventory)
	inv.Post("/validate", inventoryHandler.BatchValidate)
	inv.Post("/adjustments/check", inventoryHandler.CheckAdjustments)
	inv.Get("/stream", eventsHandler.Stream)

	// Reservas (las llama el flujo de carrito/checkout)
	inv.Post("/reservations", reservationHandler.Reserve)
	inv.Delete("/reservations", reservationHandler.Release)
	inv.Get("/reservations/count", reservationHandler.CurrentlyReserved)

	// Superficie admin (requiere Bearer Token con rol admin)
	admin := inv.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))
	admin.Post("/adjust", inventoryHandler.UpdateInventory)
	admin.Post("/adjust/bulk", inventoryHandler.BulkUpdateInventory)
	admin.Get("/products", inventoryHandler.GetProducts)
	admin.Get("/metrics", inventoryHandler.GetInventoryMetrics)
	admin.Get("/out-of-stock", inventoryHandler.GetOutOfStockProducts)
	admin.Get("/turnover", inventoryHandler.GetInventoryTurnover)
	admin.Get("/products/:id/history", inventoryHandler.GetInventoryHistory)
}
