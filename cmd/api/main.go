package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/internal/realtime"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	// Repositorios
	productRepo := postgres.NewProductRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	historyRepo := postgres.NewInventoryHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de display y difusión en tiempo real
	instanceID := uuid.New().String()
	displayCache := rediscache.NewDisplayCache(redisClient, cfg.Inventory.CacheTTL, log.Component("cache"))
	hub := realtime.NewHub()
	broadcaster := realtime.NewBroadcaster(hub, cfg.Inventory.EventQueueSize, log.Component("broadcaster"),
		rediscache.NewEventPublisher(redisClient, instanceID),
		rediscache.NewCacheInvalidator(displayCache),
	)
	go broadcaster.Start(ctx)

	listener := rediscache.NewEventListener(redisClient, broadcaster.Hub(), instanceID, log.Component("listener"))
	go listener.Start(ctx)

	// Casos de uso del motor de inventario
	retryCfg := inventory.RetryConfig{
		MaxRetries: cfg.Inventory.MaxRetries,
		BaseDelay:  cfg.Inventory.RetryBaseDelay,
	}
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, productRepo, reservationRepo, broadcaster, retryCfg, log.Component("ledger"))
	validateUC := inventory.NewValidateStockUseCase(productRepo, reservationRepo, displayCache, log.Component("validator"))
	reservationUC := inventory.NewReservationUseCase(reservationRepo, productRepo, broadcaster,
		cfg.Inventory.CartReservationTTL, cfg.Inventory.CheckoutReservationTTL, log.Component("reservations"))
	metricsUC := inventory.NewMetricsUseCase(productRepo, reservationRepo, historyRepo)

	// Barrido de reservas vencidas (higiene; la corrección no depende de él)
	sweeper := inventory.NewReservationSweeper(reservationRepo, cfg.Inventory.SweepInterval, log.Component("sweeper"))
	go sweeper.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Storefront API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		if err := redisClient.Ping(c.Context()).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "redis": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustUC:      adjustUC,
		ValidateUC:    validateUC,
		ReservationUC: reservationUC,
		MetricsUC:     metricsUC,
		Hub:           broadcaster.Hub(),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando aplicación")
	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown HTTP")
	}
}
