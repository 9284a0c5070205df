package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/gestor/backend/internal/application/catalog"
	financeapp "github.com/gestor/backend/internal/application/finance"
	identityapp "github.com/gestor/backend/internal/application/identity"
	partnerapp "github.com/gestor/backend/internal/application/partner"
	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/interfaces/http/handler"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gestor/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Gestor Backend API
//	@version		1.0
//	@description	Small-business management API: orders, receivables and cash registers
//	@host			localhost:8080
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting Gestor Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Idempotency store: Redis when configured, in-memory otherwise
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idemStore = redisStore
		log.Info("Idempotency store backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Idempotency store backed by process memory")
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	contactRepo := persistence.NewGormContactRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	paymentMethodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	cashRegisterRepo := persistence.NewGormCashRegisterRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)

	// Initialize application services
	contactService := partnerapp.NewContactService(contactRepo)
	productService := catalogapp.NewProductService(productRepo)
	paymentMethodService := salesapp.NewPaymentMethodService(paymentMethodRepo)
	orderService := salesapp.NewOrderService(
		orderRepo,
		paymentMethodRepo,
		productRepo,
		contactRepo,
		receivableRepo,
		cashRegisterRepo,
		db,
		log,
	)
	receivableService := financeapp.NewReceivableService(receivableRepo, cashRegisterRepo, contactRepo, db, log)
	cashRegisterService := financeapp.NewCashRegisterService(cashRegisterRepo, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiration)
	hasher := auth.NewBcryptHasher(0)
	authService := identityapp.NewAuthService(userRepo, organizationRepo, jwtService, hasher, db, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	productHandler := handler.NewProductHandler(productService)
	paymentMethodHandler := handler.NewPaymentMethodHandler(paymentMethodService)
	orderHandler := handler.NewOrderHandler(orderService)
	receivableHandler := handler.NewReceivableHandler(receivableService)
	cashRegisterHandler := handler.NewCashRegisterHandler(cashRegisterService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so every later stage can log it
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

	// Probes stay outside the versioned, authenticated API surface
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for everything except the public auth endpoints
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Idempotency applies after auth so keys can be scoped per tenant
	r.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  idemStore,
		TTL:    24 * time.Hour,
		Logger: log,
	}))

	// Identity domain
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.GET("/me", authHandler.Me)

	// Partner domain (contacts)
	partnerRoutes := router.NewDomainGroup("partner", "/contacts")
	partnerRoutes.POST("", contactHandler.Create)
	partnerRoutes.GET("", contactHandler.List)
	partnerRoutes.GET("/:id", contactHandler.GetByID)
	partnerRoutes.PUT("/:id", contactHandler.Update)
	partnerRoutes.DELETE("/:id", contactHandler.Delete)

	// Catalog domain (products)
	catalogRoutes := router.NewDomainGroup("catalog", "/products")
	catalogRoutes.POST("", productHandler.Create)
	catalogRoutes.GET("", productHandler.List)
	catalogRoutes.GET("/:id", productHandler.GetByID)
	catalogRoutes.PUT("/:id", productHandler.Update)
	catalogRoutes.DELETE("/:id", productHandler.Delete)

	// Sales domain (payment methods, orders)
	paymentMethodRoutes := router.NewDomainGroup("payment-methods", "/payment-methods")
	paymentMethodRoutes.POST("", paymentMethodHandler.Create)
	paymentMethodRoutes.GET("", paymentMethodHandler.List)
	paymentMethodRoutes.GET("/:id", paymentMethodHandler.GetByID)
	paymentMethodRoutes.PUT("/:id", paymentMethodHandler.Update)
	paymentMethodRoutes.DELETE("/:id", paymentMethodHandler.Delete)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PUT("/:id", orderHandler.Update)
	orderRoutes.POST("/:id/status", orderHandler.ChangeStatus)
	orderRoutes.DELETE("/:id", orderHandler.Cancel)

	// Finance domain (receivables, cash registers)
	receivableRoutes := router.NewDomainGroup("receivables", "/receivables")
	receivableRoutes.POST("", receivableHandler.Create)
	receivableRoutes.GET("", receivableHandler.List)
	receivableRoutes.GET("/:id", receivableHandler.GetByID)
	receivableRoutes.POST("/:id/payments", receivableHandler.RegisterPayment)

	cashRegisterRoutes := router.NewDomainGroup("cash-registers", "/cash-registers")
	cashRegisterRoutes.POST("", cashRegisterHandler.Open)
	cashRegisterRoutes.GET("", cashRegisterHandler.List)
	cashRegisterRoutes.GET("/current", cashRegisterHandler.GetCurrent)
	cashRegisterRoutes.GET("/:id", cashRegisterHandler.GetByID)
	cashRegisterRoutes.PUT("/:id/close", cashRegisterHandler.Close)

	cashMovementRoutes := router.NewDomainGroup("cash-movements", "/cash-movements")
	cashMovementRoutes.POST("", cashRegisterHandler.PostMovement)
	cashMovementRoutes.GET("", cashRegisterHandler.ListMovements)

	// Register all domain groups
	r.Register(authRoutes).
		Register(partnerRoutes).
		Register(catalogRoutes).
		Register(paymentMethodRoutes).
		Register(orderRoutes).
		Register(receivableRoutes).
		Register(cashRegisterRoutes).
		Register(cashMovementRoutes)

	// Setup routes
	r.Setup()

	// Versioned health alias for probes routed through the API prefix
	engine.GET("/api/v1/health", systemHandler.Health)

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
