package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	orderapp "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/infrastructure/auth"
	"github.com/storeadmin/backend/internal/infrastructure/billing"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/storeadmin/backend/internal/infrastructure/event"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/migration"
	"github.com/storeadmin/backend/internal/infrastructure/persistence"
	"github.com/storeadmin/backend/internal/infrastructure/scheduler"
	"github.com/storeadmin/backend/internal/infrastructure/storage"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"github.com/storeadmin/backend/internal/interfaces/http/router"
	"github.com/storeadmin/backend/migrations"
	"go.uber.org/zap"
)

//	@title			Store Admin API
//	@version		1.0
//	@description	Store admin backend: product catalog, orders, revenue and Stripe checkout webhook

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// mediaPath serves uploaded images when no object store is configured
const mediaPath = "/media"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Env:        cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	log.Info("Starting store admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	poolMetrics, err := telemetry.RegisterDBPoolMetrics(mp.Meter("storeadmin/db"), sqlDB)
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}
	defer func() {
		_ = poolMetrics.Unregister()
	}()

	paymentMetrics, err := telemetry.NewPaymentMetrics(mp.Meter("storeadmin/payment"))
	if err != nil {
		log.Fatal("Failed to create payment metrics", zap.Error(err))
	}
	catalogMetrics, err := telemetry.NewCatalogMetrics(mp.Meter("storeadmin/catalog"))
	if err != nil {
		log.Fatal("Failed to create catalog metrics", zap.Error(err))
	}

	if err := migrateUp(db, cfg.Database.MigrationsPath, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Repositories and services
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	storeService := catalogapp.NewStoreService(storeRepo)
	productService := catalogapp.NewProductService(persistence.NewGormCatalogTransactionScope(db.DB),
		catalogapp.WithReplaceMetrics(catalogMetrics))
	queryService := catalogapp.NewQueryService(productRepo)
	orderService := orderapp.NewOrderService(orderRepo)

	// Processed webhook event ledger
	dbLedger := persistence.NewGormWebhookEventLedger(db.DB)
	ledger, err := cache.NewLedgerFactory(cfg.Webhook, cfg.Redis,
		cache.WithLogger(log),
		cache.WithDatabaseLedger(dbLedger),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create webhook ledger", zap.Error(err))
	}
	defer func() {
		_ = ledger.Close()
	}()

	// Domain events: OrderPaid fans out to Kafka when enabled
	bus := event.NewBus(log)
	var kafkaPublisher *event.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaCfg := event.KafkaPublisherConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}
		kafkaPublisher = event.NewKafkaPublisher(event.NewKafkaWriter(kafkaCfg, log), kafkaCfg, log)
		bus.Subscribe(kafkaPublisher, kafkaPublisher.EventTypes()...)
		log.Info("Kafka order events enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	stripeAdapter, err := billing.NewStripeAdapter(&billing.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Tolerance:     cfg.Stripe.Tolerance,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe webhook verification", zap.Error(err))
	}

	reconciler := orderapp.NewPaymentReconciler(orderapp.PaymentReconcilerConfig{
		Verifier:  stripeAdapter,
		TxScope:   persistence.NewGormOrderTransactionScope(db.DB),
		Ledger:    ledger,
		LedgerTTL: cfg.Webhook.LedgerTTL,
		Publisher: bus,
		Metrics:   paymentMetrics,
		Logger:    log,
	})

	// Image storage: S3 when configured, otherwise in-process and served under mediaPath
	imageHandler, servedMedia := buildImageHandler(ctx, cfg, log)

	// Cron jobs
	sched := scheduler.New(log, time.UTC)
	if cfg.Webhook.Ledger == config.LedgerDatabase && cfg.Webhook.PruneSchedule != "" {
		if err := scheduler.RegisterLedgerPruner(sched, dbLedger, cfg.Webhook.PruneSchedule, log); err != nil {
			log.Fatal("Failed to schedule ledger pruning", zap.Error(err))
		}
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	jwtService, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		log.Fatal("Failed to initialize JWT verification", zap.Error(err))
	}

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMetrics, err := middleware.HTTPMetrics(mp.Meter("storeadmin/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		httpMetrics,
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)

	guards := router.Guards{
		Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: jwtService,
			Logger:    log,
		}),
		StoreOwner: middleware.RequireStoreOwner(middleware.StoreOwnerConfig{
			Checker: storeService,
			Logger:  log,
		}),
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
	}
	if servedMedia {
		guards.MediaPath = mediaPath
	}

	router.Mount(engine, router.Handlers{
		System:  handler.NewSystemHandler(cfg.App.Name, version, db),
		Product: handler.NewProductHandler(productService, queryService, storeService),
		Order:   handler.NewOrderHandler(orderService),
		Webhook: handler.NewStripeWebhookHandler(reconciler),
		Image:   imageHandler,
	}, guards)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Warn("Kafka writer close failed", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateUp applies pending migrations before serving. The migrator is not
// closed because closing it closes the shared connection pool.
func migrateUp(db *persistence.Database, path string, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	var m *migration.Migrator
	if path == "" {
		m, err = migration.New(sqlDB, migrations.FS, log)
	} else {
		m, err = migration.NewFromPath(sqlDB, path, log)
	}
	if err != nil {
		return err
	}
	return m.Up()
}

// buildImageHandler returns the upload handler and whether images are served
// by this process
func buildImageHandler(ctx context.Context, cfg *config.Config, log *zap.Logger) (*handler.ImageHandler, bool) {
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ImageStore(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Image bucket check failed", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
		return handler.NewImageHandler(catalogapp.NewImageService(s3Store, cfg.HTTP.MaxUploadSize), nil), false
	}

	log.Warn("Object storage disabled, keeping uploaded images in memory")
	mem := storage.NewMemoryImageStore(mediaPath)
	return handler.NewImageHandler(catalogapp.NewImageService(mem, cfg.HTTP.MaxUploadSize), mem), true
}
