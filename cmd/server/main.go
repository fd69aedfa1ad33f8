package main

import (
	"context"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/memoriascard/backend/internal/application/identity"
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	"github.com/memoriascard/backend/internal/application/notification"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/infrastructure/auth"
	"github.com/memoriascard/backend/internal/infrastructure/billing"
	"github.com/memoriascard/backend/internal/infrastructure/cache"
	"github.com/memoriascard/backend/internal/infrastructure/config"
	"github.com/memoriascard/backend/internal/infrastructure/localstore"
	"github.com/memoriascard/backend/internal/infrastructure/logger"
	"github.com/memoriascard/backend/internal/infrastructure/persistence"
	"github.com/memoriascard/backend/internal/infrastructure/storage"
	"github.com/memoriascard/backend/internal/infrastructure/telemetry"
	"github.com/memoriascard/backend/internal/interfaces/http/handler"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
	"github.com/memoriascard/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting MemóriasCard backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Log export tees zap into the collector next to the traces
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := logProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	exportLevel, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		exportLevel = zapcore.InfoLevel
	}
	log = logProvider.Bridge(log, exportLevel)

	metrics := telemetry.NewMetrics()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = !cfg.IsProduction()
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist and, when configured, the draft slots
	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	ledger, err := cache.NewLedgerFactory(cfg.Redis, cache.WithLogger(log)).CreateLedger(ctx)
	if err != nil {
		log.Fatal("Failed to create payment return ledger", zap.Error(err))
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	// Initialize repositories
	cardRepo := persistence.NewGormMemoryCardRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)

	photos := newPhotoStorage(cfg, log)

	stripeConfig := &billing.StripeConfig{
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		IsTestMode:     !cfg.IsProduction(),
		Currency:       cfg.Payment.Currency,
		UnitAmount:     cfg.Payment.PriceInCents,
	}
	stripeAdapter, err := billing.NewStripeAdapter(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe", zap.Error(err))
	}

	draftSlot, err := newDraftSlot(cfg, redisClient)
	if err != nil {
		log.Fatal("Failed to open local card store", zap.Error(err))
	}
	draftStore := localstore.New(draftSlot, localstore.Config{
		Key:                  cfg.LocalStore.Key,
		BudgetBytes:          cfg.LocalStore.BudgetBytes,
		CompressionThreshold: cfg.LocalStore.CompressionThreshold,
		MaxPhotos:            cfg.LocalStore.MaxPhotos,
		MaxPhotoWidth:        cfg.LocalStore.MaxPhotoWidth,
		JPEGQuality:          cfg.LocalStore.JPEGQuality,
	}, localstore.WithLogger(log))

	// Initialize application services
	notifier := notification.NewDispatcher(log)
	jwtService := auth.NewJWTService(cfg.JWT)

	cardService := appcard.NewCardService(cardRepo, photos, notifier, appcard.CardServiceConfig{
		PhotoFolder:         cfg.Storage.PhotoFolder,
		MaxPhotoBytes:       cfg.HTTP.PhotoUploadMaxSize,
		AllowedContentTypes: photoContentTypes(cfg.HTTP.PhotoUploadAllowedFormat),
	}, log, appcard.WithMetrics(metrics))
	draftService := appcard.NewDraftService(draftStore, cardService, notifier, metrics, log)

	paymentService := apppayment.NewPaymentService(apppayment.PaymentServiceDeps{
		Checkout: stripeAdapter,
		Webhooks: stripeAdapter,
		Cards:    cardRepo,
		Payments: paymentRepo,
		Tx:       persistence.NewGormTransactionScope(db.DB),
		Ledger:   ledger,
		Notifier: notifier,
		Metrics:  metrics,
		Config:   apppayment.Config{Origin: cfg.App.Origin},
		Logger:   log,
	})

	authService := identityapp.NewAuthService(userRepo, profileRepo, jwtService, blacklist, log)
	profileService := identityapp.NewProfileService(userRepo, profileRepo, log)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validators with gin's binding engine
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Middleware order matters:
	// 1. RequestID first so every later log line and span carries it
	// 2. Recovery before anything that may panic
	// 3. Tracing and metrics around the request logger
	// 4. Security headers and CORS
	// 5. Body limit before any handler reads the payload
	// 6. Notifications collector closest to the handlers
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.HTTPMetrics(metrics))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{cfg.App.Origin}
	}
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Notifications())

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	opts := router.Options{JWT: jwtConfig}
	if cfg.HTTP.PaymentRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.PaymentRateLimitPerSec, cfg.HTTP.PaymentRateLimitBurst)
		defer limiter.Stop()
		opts.PaymentLimiter = limiter
	}
	if cfg.HTTP.MetricsEnabled {
		opts.Metrics = metrics.Handler()
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			return db.DB.WithContext(ctx).Exec("SELECT 1").Error
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	router.RegisterRoutes(engine, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService),
		Catalog: handler.NewCatalogHandler(),
		Memory:  handler.NewMemoryHandler(cardService),
		Card:    handler.NewCardHandler(cardService, cfg.HTTP.PhotoUploadMaxSize),
		Draft:   handler.NewDraftHandler(draftService),
		Payment: handler.NewPaymentHandler(paymentService),
		Webhook: handler.NewStripeWebhookHandler(paymentService),
		System:  handler.NewSystemHandler(cfg.App.Name, version, checks),
	}, opts)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// connectRedis returns nil when redis is disabled or unreachable
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		if cfg.LocalStore.Slot == "redis" {
			log.Fatal("Redis is required by the local card store", zap.Error(err))
		}
		log.Warn("Redis unavailable, revoked tokens are kept in memory", zap.Error(err))
		return nil
	}
	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	return client
}

// newPhotoStorage uses S3 when credentials are configured. Outside production
// an in-memory store keeps uploads working without a bucket.
func newPhotoStorage(cfg *config.Config, log *zap.Logger) appcard.PhotoStorage {
	if cfg.Storage.AccessKey == "" && !cfg.IsProduction() {
		log.Warn("Storage credentials not configured, photos are kept in memory")
		return storage.NewStubPhotoStorage()
	}
	s3Storage, err := storage.NewS3PhotoStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize photo storage", zap.Error(err))
	}
	return s3Storage
}

func newDraftSlot(cfg *config.Config, redisClient *redis.Client) (localstore.Slot, error) {
	switch cfg.LocalStore.Slot {
	case "memory":
		return localstore.NewMemorySlot(), nil
	case "redis":
		return localstore.NewRedisSlot(redisClient), nil
	default:
		return localstore.NewFileSlot(cfg.LocalStore.FileDir)
	}
}

// photoContentTypes maps configured file extensions to MIME types
func photoContentTypes(extensions []string) []string {
	types := make([]string, 0, len(extensions))
	seen := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		t, _, _ := strings.Cut(mime.TypeByExtension(strings.ToLower(ext)), ";")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}
