package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clickmobile/clickmobile-backend/config"
	"github.com/clickmobile/clickmobile-backend/internal/app/controller"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/app/service"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/clickmobile/clickmobile-backend/internal/router"
	"github.com/clickmobile/clickmobile-backend/internal/scheduler"
	"github.com/clickmobile/clickmobile-backend/internal/storage"
	"github.com/clickmobile/clickmobile-backend/internal/ws"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"github.com/clickmobile/clickmobile-backend/pkg/mailer"
	"github.com/clickmobile/clickmobile-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Click Mobile Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the stats cache. The server still
	// runs without it, minus those features.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation and stats cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	materialRepo := repository.NewMaterialRepository(db.GetDB())

	// Order feed hub for the admin dashboard
	orderFeed := ws.NewHub()
	go orderFeed.Run()

	// Confirmation mail is optional; without SMTP config orders are simply
	// not confirmed by mail.
	var confirmationMailer service.ConfirmationMailer
	if cfg.SMTP.Host != "" {
		confirmationMailer = mailer.New(&cfg.SMTP)
	}

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	catalogService := service.NewCatalogService(categoryRepo, materialRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	pricingService := service.NewPricingService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(
		userRepo,
		cartRepo,
		orderRepo,
		pricingService,
		db.GetDB(),
		confirmationMailer,
		orderFeed,
	)
	orderService := service.NewOrderService(orderRepo, orderFeed)
	statsService := service.NewStatsService(orderRepo, userRepo, redis.GetClient())

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.AccessTokenExpiry)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, pricingService, checkoutService)
	orderController := controller.NewOrderController(orderService)
	catalogController := controller.NewCatalogController(catalogService)
	statsController := controller.NewStatsController(statsService)
	uploadController := controller.NewUploadController(storage.NewS3Storage(&cfg.S3))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Warm the dashboard cache on a schedule
	statsScheduler := scheduler.NewStatsScheduler(statsService)
	if err := statsScheduler.Start(); err != nil {
		logger.Warn("Stats scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer statsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		catalogController,
		statsController,
		uploadController,
		authMiddleware,
		orderFeed,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
