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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/marketplace/backend/docs"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	eventapp "github.com/marketplace/backend/internal/application/event"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	orderapp "github.com/marketplace/backend/internal/application/order"
	sellerapp "github.com/marketplace/backend/internal/application/seller"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	taxapp "github.com/marketplace/backend/internal/application/tax"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/export"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/realtime"
	"github.com/marketplace/backend/internal/infrastructure/scheduler"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

//	@title			Marketplace API
//	@version		1.0
//	@description	Multi-vendor marketplace backend: catalog, sellers, carts, checkout, shipping and orders.

//	@contact.name	API Support
//	@contact.email	support@marketplace.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// eventDedupTTL bounds how long a delivered event id is remembered
const eventDedupTTL = 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()
	tel := startTelemetry(ctx, cfg, log)
	log = tel.logs.Tee(log, logger.ParseLevel(cfg.Telemetry.LogsLevel))
	defer tel.shutdown(log)

	log.Info("Starting Marketplace API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:             cfg.Database.DBName,
		IncludeQueryVars:   cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; without it the stores are process-local
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		redisClient = client
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	stores := cache.NewStores(redisClient, log)
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing stores", zap.Error(err))
		}
	}()

	currency, err := valueobject.ParseCurrency(cfg.Checkout.Currency)
	if err != nil {
		log.Fatal("Invalid checkout currency", zap.String("currency", cfg.Checkout.Currency), zap.Error(err))
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	sessionRepo := persistence.NewGormCheckoutSessionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	zoneRepo := persistence.NewGormShippingZoneRepository(db.DB)
	methodRepo := persistence.NewGormShippingMethodRepository(db.DB)
	holidayRepo := persistence.NewGormHolidayRateRepository(db.DB)
	taxRepo := persistence.NewGormTaxRateRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Product images
	var objectStorage catalogapp.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3
		log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("Object storage not configured, product image URLs are not signed")
		objectStorage = storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL)
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(
		productRepo, categoryRepo, sellerRepo, objectStorage, export.NewXLSXProductExporter(), currency,
	)
	sellerService := sellerapp.NewSellerService(sellerRepo, userRepo, productService, log)
	userService := identityapp.NewUserService(userRepo)
	taxService := taxapp.NewTaxService(taxRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo, currency, log)
	quoteService := shippingapp.NewQuoteService(
		zoneRepo, holidayRepo, sessionRepo, shippingapp.OriginFromConfig(cfg.Shipping), currency, log,
	)
	shippingAdminService := shippingapp.NewAdminService(zoneRepo, methodRepo, holidayRepo, log)
	checkoutService := checkoutapp.NewCheckoutService(
		sessionRepo, cartRepo, productRepo, orderRepo, txScope,
		quoteService, taxService, stores.Idempotency,
		checkoutapp.SettingsFromConfig(cfg.Checkout), log,
	)
	orderService := orderapp.NewOrderService(orderRepo, sellerRepo, txScope, log)
	guestMigration := checkoutapp.NewGuestMigration(cartService, checkoutService, log)
	authService := identityapp.NewAuthService(
		userRepo, jwtService, stores.TokenBlacklist, guestMigration,
		identityapp.DefaultAuthServiceConfig(), log,
	)

	// Business metrics
	meter := tel.metrics.Meter("marketplace")
	businessMetrics, err := telemetry.NewMarketplaceMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	checkoutService.SetBusinessMetrics(businessMetrics)
	quoteService.SetBusinessMetrics(businessMetrics)

	// Realtime order feed for sellers
	hub := realtime.NewHub(log, realtime.WithAllowedOrigins(cfg.HTTP.CORSAllowOrigins))

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	orderMetrics := eventapp.NewOrderMetricsHandler(businessMetrics)
	sellerNotifier := event.NewIdempotentHandler("seller_order_notifier",
		eventapp.NewSellerOrderNotifier(hub), stores.Idempotency, eventDedupTTL, log)
	registrationLog := eventapp.UserRegisteredLogger{}
	eventBus.Subscribe(orderMetrics)
	eventBus.Subscribe(sellerNotifier)
	eventBus.Subscribe(registrationLog)
	log.Info("Event handlers registered",
		zap.Strings("order_metrics_events", orderMetrics.EventTypes()),
		zap.Strings("seller_notifier_events", sellerNotifier.EventTypes()),
		zap.Strings("registration_log_events", registrationLog.EventTypes()),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	sellerService.SetEventPublisher(eventBus)
	authService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// Background maintenance
	var sweeper *scheduler.Sweeper
	if cfg.Maintenance.Enabled {
		sweeper, err = scheduler.NewSweeper(
			scheduler.Config{Interval: cfg.Maintenance.Interval, TaskTimeout: cfg.Maintenance.TaskTimeout},
			[]scheduler.Task{
				scheduler.ExpireCheckoutSessions{Sessions: sessionRepo},
				scheduler.PurgeGuestCarts{Carts: cartRepo, TTL: cfg.Maintenance.GuestCartTTL},
			},
			log,
			scheduler.WithRecorder(businessMetrics),
		)
		if err != nil {
			log.Fatal("Failed to create maintenance sweeper", zap.Error(err))
		}
		sweeper.Start(ctx)
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Tracing - Root span per request
	// 2. RequestID - Generate/propagate request ID
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	// 9. GuestSession - Cookie session carrying the guest id
	// 10. OptionalAuth - Attach claims when a valid token is sent
	// 11. GuestIdentity - Resolve or mint the guest id for anonymous callers
	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = tel.tracer.IsEnabled()
	engine.Use(middleware.TracingWithConfig(tracingConfig))
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.GuestSession(cfg.Session))
	engine.Use(middleware.OptionalAuth(authService, log))
	engine.Use(middleware.GuestIdentity(log))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.ProfilingWithLabels(tel.profiler.IsEnabled()))

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)

	// Health check endpoint (outside API versioning)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version).
		AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Credential endpoints get a tighter per-IP budget
	credentialLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer credentialLimiter.Stop()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterMarketplace(r, router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Category:      handler.NewCategoryHandler(categoryService),
		Product:       handler.NewProductHandler(productService),
		Seller:        handler.NewSellerHandler(sellerService),
		Cart:          handler.NewCartHandler(cartService),
		Checkout:      handler.NewCheckoutHandler(checkoutService),
		Shipping:      handler.NewShippingHandler(quoteService),
		ShippingAdmin: handler.NewShippingAdminHandler(shippingAdminService),
		Tax:           handler.NewTaxHandler(taxService),
		Order:         handler.NewOrderHandler(orderService),
		Stream:        handler.NewStreamHandler(sellerService, hub),
		System:        systemHandler,
	}, router.Guards{
		Authenticated: middleware.RequireAuth(authService, log),
		Admin:         middleware.RequireRole("admin"),
		Credentials:   middleware.AuthRateLimit(credentialLimiter),
	})
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Warn("Error stopping maintenance sweeper", zap.Error(err))
		}
	}
	// Hijacked websocket connections are not tracked by Shutdown
	if err := hub.Close(shutdownCtx); err != nil {
		log.Warn("Error closing realtime hub", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// telemetryProviders owns every OpenTelemetry and profiling component
type telemetryProviders struct {
	tracer   *telemetry.TracerProvider
	metrics  *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
}

func startTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) *telemetryProviders {
	tc := cfg.Telemetry

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	metrics, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsExportInterval,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           tc.ProfilingEnabled,
		ServerAddress:     tc.ProfilingServerAddress,
		ApplicationName:   tc.ServiceName,
		BasicAuthUser:     tc.ProfilingAuthUser,
		BasicAuthPassword: tc.ProfilingAuthPassword,
		ProfileTypes:      tc.ProfilingTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if tc.SpanProfilesEnabled && profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}

	return &telemetryProviders{tracer: tracer, metrics: metrics, logs: logs, profiler: profiler}
}

// shutdown flushes exporters in reverse start order
func (t *telemetryProviders) shutdown(log *zap.Logger) {
	ctx := context.Background()
	if err := t.profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := t.logs.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down log export", zap.Error(err))
	}
	if err := t.metrics.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down metrics", zap.Error(err))
	}
	if err := t.tracer.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down tracing", zap.Error(err))
	}
}
