package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/config"
	"github.com/kavi/kavi-backend/internal/handler"
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/kavi/kavi-backend/internal/repository/postgres"
	"github.com/kavi/kavi-backend/internal/repository/storage"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/kavi/kavi-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Kavi API
// @version 1.0
// @description Financial analytics and scoring for small businesses
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Auth0 access token as "Bearer <token>"
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	clock := util.SystemClock{}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	scoreHistoryRepo := postgres.NewScoreHistoryRepository(pool)

	// Analytics cache
	var store cache.Store
	switch cfg.Cache.Backend {
	case config.CacheBackendBadger:
		badgerStore, err := cache.OpenBadgerStore(cfg.Cache.BadgerPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open badger cache")
		}
		defer badgerStore.Close()
		store = badgerStore
	default:
		memoryStore := cache.NewMemoryStore(clock, time.Minute)
		defer memoryStore.Stop()
		store = memoryStore
	}
	analyticsCache := cache.New(store, cfg.Cache.TTL)
	log.Info().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Cache.TTL).Msg("Analytics cache ready")

	// Snapshot archive (optional)
	var archive storage.SnapshotArchive
	if cfg.S3.Enabled() {
		s3Archive, err := storage.NewS3SnapshotArchive(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 snapshot archive")
		}
		archive = s3Archive
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 snapshot archive enabled")
	}

	// Realtime push
	hub := websocket.NewHub()
	invalidator := service.NewInvalidator(analyticsCache, hub)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	ledgerService := service.NewLedgerService(transactionRepo, invoiceRepo, budgetRepo)
	scoreHistoryService := service.NewScoreHistoryService(scoreHistoryRepo, archive, invalidator)
	scoringService := service.NewScoringService(ledgerService, businessRepo, nil, clock, analyticsCache)
	forecastService := service.NewForecastService(ledgerService, businessRepo, nil, clock, archive)
	dashboardService := service.NewDashboardService(ledgerService, businessRepo, scoreHistoryService, clock, analyticsCache)
	supplierService := service.NewSupplierService(ledgerService, businessRepo, nil, analyticsCache)
	transactionService := service.NewTransactionService(transactionRepo, businessRepo, invalidator, clock)
	invoiceService := service.NewInvoiceService(invoiceRepo, businessRepo, invalidator, clock)
	budgetService := service.NewBudgetService(budgetRepo, businessRepo, invalidator)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Overdue invoice sweep
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	overdueWorker := service.NewOverdueWorker(invoiceRepo, invalidator, clock, log.Logger, service.OverdueWorkerConfig{
		Schedule: cfg.OverdueSweepSchedule,
	})
	if err := overdueWorker.Start(workerCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start overdue worker")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Analytics:   handler.NewAnalyticsHandler(scoringService, forecastService, dashboardService, supplierService, scoreHistoryService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Invoice:     handler.NewInvoiceHandler(invoiceService),
		Budget:      handler.NewBudgetHandler(budgetService),
		WebSocket:   handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	overdueWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
