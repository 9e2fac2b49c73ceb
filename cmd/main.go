package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"bookmart/internal/caching"
	"bookmart/internal/config"
	"bookmart/internal/handlers"
	"bookmart/internal/jobs"
	"bookmart/internal/jobs/background"
	"bookmart/internal/repositories"
	"bookmart/internal/services"
	"bookmart/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize MinIO-backed book storage
	storageSvc, err := services.NewMinioStorageService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize book storage: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: failed to ensure book bucket exists: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	bookRepo := repositories.NewBookRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	purchaseRepo := repositories.NewPurchaseRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Notification queue producer
	enqueuer := jobs.NewAsynqEnqueuer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer enqueuer.Close()

	// Create services
	verifierSvc := services.NewVerifierService(cfg.Payment.WebhookSecret)
	fulfillmentSvc := services.NewFulfillmentService(planRepo, userRepo, bookRepo, subscriptionRepo, purchaseRepo, cacheSvc, enqueuer)
	entitlementSvc := services.NewEntitlementService(subscriptionRepo, purchaseRepo, cacheSvc)

	// Create handlers
	webhookHandlers := handlers.NewWebhookHandlers(verifierSvc, fulfillmentSvc)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(planRepo, entitlementSvc)
	bookHandlers := handlers.NewBookHandlers(bookRepo, entitlementSvc, storageSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Renewal reminder scheduler
	scheduler, err := background.NewJobScheduler(subscriptionRepo, userRepo, enqueuer)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Payment provider webhook
	e.POST("/webhooks/payment", webhookHandlers.PaymentWebhook)

	// API routes
	v1 := e.Group("/v1")
	v1.GET("/plans", subscriptionHandlers.ListPlans)
	v1.GET("/users/:id/subscription", subscriptionHandlers.GetUserSubscription)
	v1.GET("/users/:id/purchases", subscriptionHandlers.ListUserPurchases)
	v1.GET("/books", bookHandlers.ListBooks)
	v1.GET("/books/:id", bookHandlers.GetBook)
	v1.GET("/books/:id/download", bookHandlers.DownloadBook)

	log.Printf("Bookmart server v%s starting on port %d", version, cfg.Port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
