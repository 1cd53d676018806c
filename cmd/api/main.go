package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/audit"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/redisx"
	httpRouter "github.com/jhoicas/retail-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger-api/pkg/config"
	"github.com/jhoicas/retail-ledger-api/pkg/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)

	// Sink de auditoría: Kafka si hay brokers configurados, descarte si no.
	// El publisher se cierra recién después de apagar el servidor HTTP, para
	// que los requests en vuelo puedan seguir encolando eventos.
	var recorder fulfillment.TransitionRecorder = fulfillment.NopRecorder{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, 1024, log)
		publisher.Start()
		defer func() {
			publisher.Close()
			publisher.WaitClosed()
		}()
		recorder = publisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("auditoría Kafka habilitada")
	}

	engine := fulfillment.NewEngine(txRunner, recorder, log)
	purchaseUC := fulfillment.NewPurchaseOrders(engine)
	salesUC := fulfillment.NewSalesOrders(engine)
	transferUC := fulfillment.NewStockTransfers(engine)
	returnUC := fulfillment.NewReturnOrders(engine)

	// Read path: repos atados al pool, sin transacción.
	queries := ledger.NewQueries(
		postgres.NewStockLevelRepository(pool),
		postgres.NewMovementRepository(pool),
	)

	// Cache de disponibilidad: solo si hay Redis configurado.
	var cache *redisx.AvailabilityCache
	if cfg.Redis.Addr != "" {
		cache = redisx.NewAvailabilityCache(redisx.New(cfg.Redis.Addr), cfg.Redis.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("cache de disponibilidad habilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseOrders: purchaseUC,
		SalesOrders:    salesUC,
		StockTransfers: transferUC,
		ReturnOrders:   returnUC,
		Queries:        queries,
		Cache:          cache,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
