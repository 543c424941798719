package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/edulistas/backend/internal/application/cart"
	catalogapp "github.com/edulistas/backend/internal/application/catalog"
	identityapp "github.com/edulistas/backend/internal/application/identity"
	listingapp "github.com/edulistas/backend/internal/application/listing"
	personalizationapp "github.com/edulistas/backend/internal/application/personalization"
	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/edulistas/backend/internal/infrastructure/auth"
	"github.com/edulistas/backend/internal/infrastructure/cache"
	"github.com/edulistas/backend/internal/infrastructure/config"
	"github.com/edulistas/backend/internal/infrastructure/logger"
	"github.com/edulistas/backend/internal/infrastructure/persistence"
	"github.com/edulistas/backend/internal/infrastructure/scheduler"
	"github.com/edulistas/backend/internal/infrastructure/shopify"
	"github.com/edulistas/backend/internal/interfaces/http/handler"
	"github.com/edulistas/backend/internal/interfaces/http/middleware"
	"github.com/edulistas/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
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

	log.Info("Starting Edulistas Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	listRepo := persistence.NewGormSchoolListRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)

	// Initialize the Shopify adapter. An incomplete configuration is
	// tolerated: catalog lookups then answer with a not-configured
	// error and the rest of the app keeps working.
	shopifyConfig := shopify.NewConfig(cfg.Shopify.ShopName, cfg.Shopify.AccessToken)
	if cfg.Shopify.APIVersion != "" {
		shopifyConfig.APIVersion = cfg.Shopify.APIVersion
	}
	if cfg.Shopify.Timeout > 0 {
		shopifyConfig.Timeout = cfg.Shopify.Timeout
	}
	if cfg.Shopify.MaxRetries > 0 {
		shopifyConfig.MaxRetries = cfg.Shopify.MaxRetries
	}
	if cfg.Shopify.RequestDelay > 0 {
		shopifyConfig.RequestDelay = cfg.Shopify.RequestDelay
	}
	shopifyAdapter := shopify.NewAdapter(shopifyConfig, log)

	// Wrap the adapter in a product cache to keep read traffic off the
	// platform API
	cacheFactory := cache.NewProductCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithTTL(cfg.Shopify.CacheTTL),
		cache.WithInMemoryFallback(true),
	)
	productCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create product cache", zap.Error(err))
	}
	defer func() {
		if err := productCache.Close(); err != nil {
			log.Error("Error closing product cache", zap.Error(err))
		}
	}()
	var catalog storefront.Catalog = cache.NewCachingCatalog(shopifyAdapter, productCache, log)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize application services
	listService := listingapp.NewSchoolListService(listRepo)
	personalizationService := personalizationapp.NewPersonalizationService(listRepo, eventRepo, catalog, log)
	sweeperService := personalizationapp.NewSweeperService(eventRepo, cfg.Personalization.RetentionWindow, log)
	cartService := cartapp.NewCartService(catalog, personalizationService, log)
	catalogService := catalogapp.NewCatalogService(catalog)
	authService := identityapp.NewAuthService(adminRepo, jwtService, log)

	// Start the expiry sweeper
	sweepScheduler := scheduler.NewSweepScheduler(scheduler.SweepSchedulerConfig{
		Interval:   cfg.Personalization.SweepInterval,
		RunOnStart: cfg.Personalization.SweepOnStart,
	}, sweeperService, log)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := sweepScheduler.Start(schedulerCtx); err != nil {
		log.Fatal("Failed to start sweep scheduler", zap.Error(err))
	}
	log.Info("Sweep scheduler started",
		zap.Duration("interval", cfg.Personalization.SweepInterval),
		zap.Duration("retention", cfg.Personalization.RetentionWindow),
	)

	// Initialize HTTP handlers
	listHandler := handler.NewSchoolListHandler(listService)
	personalizationHandler := handler.NewPersonalizationHandler(personalizationService)
	cartHandler := handler.NewCartHandler(cartService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	geoHandler := handler.NewGeoHandler()
	authHandler := handler.NewAuthHandler(authService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies so the visitor key resolves to the real
	// client address behind the reverse proxy
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.PublicRoutes{
		Lists:           listHandler,
		Personalization: personalizationHandler,
		Cart:            cartHandler,
		Catalog:         catalogHandler,
		Geo:             geoHandler,
		Auth:            authHandler,
		VisitorKey:      middleware.VisitorKey(middleware.ClientIPResolver),
	})
	r.Register(router.AdminRoutes{
		Lists: listHandler,
		Auth:  authHandler,
		JWT: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Logger:     log,
		}),
	})
	r.Setup()

	// Configure HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sweepScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping sweep scheduler", zap.Error(err))
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
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
