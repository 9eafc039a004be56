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

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/auth"
	"github.com/shoptrack/pos-api/internal/application/dashboard"
	"github.com/shoptrack/pos-api/internal/application/forecast"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/application/usecase"
	"github.com/shoptrack/pos-api/internal/infrastructure/broker"
	"github.com/shoptrack/pos-api/internal/infrastructure/cache"
	"github.com/shoptrack/pos-api/internal/infrastructure/notify"
	"github.com/shoptrack/pos-api/internal/infrastructure/pdf"
	"github.com/shoptrack/pos-api/internal/infrastructure/postgres"
	"github.com/shoptrack/pos-api/internal/infrastructure/ws"
	httpRouter "github.com/shoptrack/pos-api/internal/interfaces/http"
	"github.com/shoptrack/pos-api/internal/jobs"
	"github.com/shoptrack/pos-api/pkg/config"
	"github.com/shoptrack/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones de esquema")
	}

	// rootCtx gobierna las goroutines de fondo (hub, dispatcher); se cancela
	// en el apagado.
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productRepo := postgres.NewProductRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	predictionRepo := postgres.NewPredictionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché: Redis si está configurado, en memoria si no
	var cacheStore ports.CacheStore
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		cacheStore = cache.NewRedisStore(client, cfg.Redis.Prefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis conectada")
	} else {
		cacheStore = cache.NewMemoryStore()
		log.Warn().Msg("REDIS_ADDR vacío, usando caché en memoria")
	}

	// Broker: los eventos del outbox salen por AMQP o, sin broker, al log
	var publisher broker.EventPublisher
	if cfg.AMQP.URL != "" {
		amqpPub, err := broker.NewAMQPPublisher(cfg.AMQP)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer amqpPub.Close()
		publisher = amqpPub
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("publicador AMQP conectado")
	} else {
		publisher = broker.LogPublisher{}
		log.Warn().Msg("AMQP_URL vacío, eventos del outbox solo al log")
	}
	dispatcher := broker.NewDispatcher(outboxRepo, publisher)
	go dispatcher.Run(rootCtx)

	hub := ws.NewHub()
	go hub.Run(rootCtx)

	// Canales de notificación por severidad. SMS y dashboard siempre; email y
	// webhook solo si están configurados.
	registry := alerting.NewChannelRegistry()
	registry.Register(notify.NewDashboardNotifier(hub))
	registry.Register(notify.NewSMSNotifier())
	if cfg.SMTP.Host != "" {
		registry.Register(notify.NewEmailNotifier(cfg.SMTP))
	}
	if cfg.Notify.WebhookURL != "" {
		registry.Register(notify.NewWebhookNotifier(cfg.Notify.WebhookURL))
	}

	alertUC := alerting.NewAlertEngineUseCase(alertRepo, outboxRepo, registry, cacheStore)
	ledgerUC := ledger.NewStockLedgerUseCase(
		txRunner, productRepo, levelRepo, movRepo, analyticsRepo, alertUC, cacheStore,
	)
	salesUC := sales.NewTransactionRecorderUseCase(
		txRunner, ledgerUC, productRepo, levelRepo, saleRepo, analyticsRepo, cacheStore, hub,
	)

	artifactStore := forecast.NewArtifactStore(cfg.Forecast.ArtifactPath)
	forecastUC := forecast.NewDemandForecasterUseCase(
		analyticsRepo, predictionRepo, alertUC, artifactStore, cfg.Forecast.RushThreshold,
	)
	if err := forecastUC.LoadArtifact(); err != nil {
		log.Warn().Err(err).Msg("artefacto del modelo no cargado; el pronóstico queda vacío hasta reentrenar")
	}

	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	dashboardUC := dashboard.NewDashboardUseCase(
		analyticsRepo, levelRepo, saleRepo, alertUC, forecastUC,
	)
	reportGen := pdf.NewSalesReportGenerator(cfg.App.Name)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = jobs.NewScheduler(forecastUC, alertUC, salesUC, logger.NewPrintfAdapter(log))
		if err != nil {
			log.Fatal().Err(err).Msg("registrar trabajos programados")
		}
		scheduler.Start()
	}

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
		Title:    "ShopTrack POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		LedgerUC:    ledgerUC,
		SalesUC:     salesUC,
		AlertUC:     alertUC,
		ForecastUC:  forecastUC,
		DashboardUC: dashboardUC,
		Reports:     reportGen,
		Hub:         hub,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Detener goroutines de fondo y esperar los trabajos en curso
	cancel()
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("trabajos programados aún en curso al expirar el apagado")
		}
	}

	log.Info().Msg("aplicación detenida")
}
