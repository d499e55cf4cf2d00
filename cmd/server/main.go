package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fiscalapp "github.com/retailpos/backend/internal/application/fiscal"
	partnerapp "github.com/retailpos/backend/internal/application/partner"
	paymentapp "github.com/retailpos/backend/internal/application/payment"
	purchaseapp "github.com/retailpos/backend/internal/application/purchase"
	"github.com/retailpos/backend/internal/fiscal"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

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

	log.Info("Starting RetailPOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

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
	if err := telemetry.RegisterDBTracing(db.DB, tracerProvider.IsEnabled(), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	transporterRepo := persistence.NewGormTransporterRepository(db.DB)
	cardProviderRepo := persistence.NewGormCardProviderRepository(db.DB)
	paymentGroupRepo := persistence.NewGormPaymentGroupRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serialization and transactional outbox
	eventSerializer := event.NewEventSerializer()
	event.RegisterDomainEvents(eventSerializer)

	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	outboxPublisher.SetMaxRetries(cfg.Event.MaxRetries)
	paymentGroupRepo.SetOutboxEventSaver(outboxPublisher)
	purchaseOrderRepo.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	partnerService := partnerapp.NewService(supplierRepo, clientRepo, transporterRepo, cardProviderRepo)
	paymentService := paymentapp.NewService(paymentGroupRepo, clientRepo, cardProviderRepo)
	purchaseOrderService := purchaseapp.NewService(purchaseOrderRepo)

	// Fiscal printer status service
	queryBytes, err := cfg.Printer.QueryBytes()
	if err != nil {
		log.Fatal("Invalid printer configuration", zap.Error(err))
	}
	statusService := fiscalapp.NewStatusService(fiscalapp.Printer{
		Device:     cfg.Printer.Device,
		BaudRate:   cfg.Printer.BaudRate,
		QueryBytes: queryBytes,
		ReplyLen:   cfg.Printer.ReplyLen,
		Timeout:    cfg.Printer.Timeout,
	}, fiscal.OpenSerialPort, log)

	// JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Purchase order confirmation -> supplier payable group
	orderConfirmedHandler := paymentapp.NewOrderConfirmedHandler(paymentGroupRepo, log)
	eventBus.Subscribe(orderConfirmedHandler)

	log.Info("Event handlers registered",
		zap.Strings("order_confirmed_events", orderConfirmedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Inject event bus into services that publish events
	paymentService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	partnerHandler := handler.NewPartnerHandler(partnerService)
	paymentGroupHandler := handler.NewPaymentGroupHandler(paymentService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	fiscalHandler := handler.NewFiscalHandler(statusService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Span per request (if telemetry enabled)
	// 4. TracingEnrichment - Request ID, tenant and status on the span
	// 5. Logger - Log requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.TracingEnrichment())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Rate limiting (if enabled). Counters live in Redis when it is
	// reachable so limits hold across replicas; otherwise each
	// instance counts locally.
	if cfg.HTTP.RateLimitEnabled {
		limiter := newRateLimiter(cfg, log)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/info",
			"/api/v1/system/health",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Partner domain (suppliers, clients, transporters, card providers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/suppliers", partnerHandler.CreateSupplier)
	partnerRoutes.GET("/suppliers", partnerHandler.ListSuppliers)
	partnerRoutes.GET("/suppliers/:id", partnerHandler.GetSupplier)
	partnerRoutes.POST("/clients", partnerHandler.CreateClient)
	partnerRoutes.GET("/clients", partnerHandler.ListClients)
	partnerRoutes.GET("/clients/:id", partnerHandler.GetClient)
	partnerRoutes.PUT("/clients/:id/credit", partnerHandler.UpdateClientCredit)
	partnerRoutes.POST("/transporters", partnerHandler.CreateTransporter)
	partnerRoutes.GET("/transporters", partnerHandler.ListTransporters)
	partnerRoutes.POST("/card-providers", partnerHandler.CreateCardProvider)
	partnerRoutes.GET("/card-providers", partnerHandler.ListCardProviders)

	// Payment domain (installment plans, payment groups)
	paymentRoutes := router.NewDomainGroup("payment", "/payment")
	paymentRoutes.POST("/plans/preview", paymentGroupHandler.PreviewPlan)
	paymentRoutes.POST("/groups", paymentGroupHandler.Create)
	paymentRoutes.GET("/groups", paymentGroupHandler.List)
	paymentRoutes.GET("/groups/:id", paymentGroupHandler.GetByID)
	paymentRoutes.POST("/groups/:id/plans", paymentGroupHandler.AddPlan)
	paymentRoutes.POST("/groups/:id/confirm", paymentGroupHandler.Confirm)
	paymentRoutes.POST("/groups/:id/payments/:paymentId/pay", paymentGroupHandler.Pay)
	paymentRoutes.POST("/groups/:id/cancel", paymentGroupHandler.Cancel)

	// Purchase domain (purchase order lifecycle)
	purchaseRoutes := router.NewDomainGroup("purchase", "/purchase")
	purchaseRoutes.POST("/orders", purchaseOrderHandler.Create)
	purchaseRoutes.GET("/orders", purchaseOrderHandler.List)
	purchaseRoutes.GET("/orders/stats/status", purchaseOrderHandler.StatusSummary)
	purchaseRoutes.GET("/orders/:id", purchaseOrderHandler.GetByID)
	purchaseRoutes.GET("/orders/number/:number", purchaseOrderHandler.GetByOrderNumber)
	purchaseRoutes.POST("/orders/:id/items", purchaseOrderHandler.AddItem)
	purchaseRoutes.PUT("/orders/:id/items/:itemId", purchaseOrderHandler.UpdateItem)
	purchaseRoutes.DELETE("/orders/:id/items/:itemId", purchaseOrderHandler.RemoveItem)
	purchaseRoutes.PUT("/orders/:id/payment-terms", purchaseOrderHandler.SetPaymentTerms)
	purchaseRoutes.POST("/orders/:id/finish", purchaseOrderHandler.Finish)
	purchaseRoutes.POST("/orders/:id/confirm", purchaseOrderHandler.Confirm)
	purchaseRoutes.POST("/orders/:id/receive", purchaseOrderHandler.Receive)
	purchaseRoutes.POST("/orders/:id/cancel", purchaseOrderHandler.Cancel)
	purchaseRoutes.DELETE("/orders/:id", purchaseOrderHandler.Delete)

	// Fiscal domain (printer status)
	fiscalRoutes := router.NewDomainGroup("fiscal", "/fiscal")
	fiscalRoutes.GET("/printer/status", fiscalHandler.PrinterStatus)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	// Register all domain groups
	r.Register(partnerRoutes).
		Register(paymentRoutes).
		Register(purchaseRoutes).
		Register(fiscalRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newRateLimiter picks a Redis-backed limiter when Redis answers a
// ping, falling back to per-instance counting otherwise.
func newRateLimiter(cfg *config.Config, log *zap.Logger) middleware.Limiter {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory rate limiter", zap.Error(err))
		_ = rdb.Close()
		return middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}

	log.Info("Using Redis-backed rate limiter",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)),
	)
	return middleware.NewRedisRateLimiter(rdb, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
