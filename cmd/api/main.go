// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/lavka-be/internal/adapters/db"
	redis_a "github.com/ammerola/lavka-be/internal/adapters/redis_adapter"
	"github.com/ammerola/lavka-be/internal/adapters/storage"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/internal/handlers"
	"github.com/ammerola/lavka-be/internal/handlers/middleware"
	"github.com/ammerola/lavka-be/internal/pkg/config"
	"github.com/ammerola/lavka-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting lavka inventory service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
		if cfg.IsProduction() {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Warn("failed to run migrations", slog.String("error", err.Error()))
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database        *db.Database
	redisClient     *redis.Client
	asynqClient     *asynq.Client
	asynqInspector  *asynq.Inspector
	productHandler  *handlers.ProductHandler
	checkoutHandler *handlers.CheckoutHandler
	historyHandler  *handlers.HistoryHandler
	exportHandler   *handlers.ExportHandler
	healthHandler   *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *logger.Logger) (*dependencies, error) {
	deps := &dependencies{}
	log := slogger.Logger

	log.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	log.Info("connecting to Redis",
		slog.String("addr", cfg.GetRedisAddr()),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	kv := redis_a.NewKV(redisClient, log)
	feed := redis_a.NewFeed(redisClient, log)

	store, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Repositories and services
	productRepo := db.NewProductRepository(database, log)
	historyRepo := db.NewHistoryRepository(database, log)

	stockService := services.NewStockService(database, productRepo, feed, log)
	seederService := services.NewSeederService(productRepo, kv, feed, log)
	liveService := services.NewLiveService(productRepo, historyRepo, feed, log)
	reportService := services.NewReportService(productRepo, historyRepo, kv, log)

	// Handlers
	deps.productHandler = handlers.NewProductHandler(stockService, productRepo, seederService, store, log)
	deps.checkoutHandler = handlers.NewCheckoutHandler(stockService, log)
	deps.historyHandler = handlers.NewHistoryHandler(historyRepo, liveService, reportService, log)
	deps.exportHandler = handlers.NewExportHandler(deps.asynqClient, kv, log)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, log)

	log.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.RequestID(handler)
	handler = middleware.Logger(slogger)(handler)
	handler = middleware.Recovery(slogger.Logger)(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"
	auth := middleware.Auth(cfg.Auth.JWTSecret, slog.Default())

	// Health and readiness endpoints are unauthenticated
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Products
	protected("GET "+apiV1+"/products", deps.productHandler.ListProducts)
	protected("POST "+apiV1+"/products", deps.productHandler.CreateProduct)
	protected("GET "+apiV1+"/products/categories", deps.productHandler.ListCategories)
	protected("POST "+apiV1+"/products/bulk-delete", deps.productHandler.BulkDeleteProducts)
	protected("POST "+apiV1+"/products/seed", deps.productHandler.SeedCatalog)
	protected("POST "+apiV1+"/products/photos", deps.productHandler.UploadPhoto)
	protected("GET "+apiV1+"/products/{id}", deps.productHandler.GetProduct)
	protected("PATCH "+apiV1+"/products/{id}", deps.productHandler.PatchProduct)
	protected("DELETE "+apiV1+"/products/{id}", deps.productHandler.DeleteProduct)

	// Stock mutations
	protected("POST "+apiV1+"/checkout", deps.checkoutHandler.Checkout)
	protected("POST "+apiV1+"/receive", deps.checkoutHandler.Receive)

	// History and reports
	protected("GET "+apiV1+"/invoices", deps.historyHandler.ListInvoices)
	protected("GET "+apiV1+"/invoices/{id}", deps.historyHandler.GetInvoice)
	protected("GET "+apiV1+"/receipts", deps.historyHandler.ListReceipts)
	protected("GET "+apiV1+"/ledger", deps.historyHandler.ListLedger)
	protected("GET "+apiV1+"/ledger/products/{id}", deps.historyHandler.LedgerForProduct)
	protected("GET "+apiV1+"/reports/revenue", deps.historyHandler.Revenue)
	protected("GET "+apiV1+"/reports/low-stock", deps.historyHandler.LowStock)

	// Live snapshot stream
	protected("GET "+apiV1+"/stream/{collection}", deps.historyHandler.Stream)

	// Exports
	protected("POST "+apiV1+"/exports/invoices/{id}/pdf", deps.exportHandler.EnqueueInvoicePDF)
	protected("POST "+apiV1+"/exports/ledger/xlsx", deps.exportHandler.EnqueueLedgerXLSX)
	protected("GET "+apiV1+"/exports/jobs/{id}", deps.exportHandler.JobStatus)
}

func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, log, 3)
}
