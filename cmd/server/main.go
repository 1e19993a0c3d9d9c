package main

import (
	"log"

	"github.com/docuscan/docuscan/internal/broker"
	"github.com/docuscan/docuscan/internal/config"
	"github.com/docuscan/docuscan/internal/corpus"
	"github.com/docuscan/docuscan/internal/database"
	"github.com/docuscan/docuscan/internal/handler"
	"github.com/docuscan/docuscan/internal/middleware"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize the flat-file corpus mirror
	corpusStore, err := corpus.NewStore(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("Failed to initialize corpus store: %v", err)
	}

	// Initialize Redis-backed activity broker
	activityBroker, err := broker.NewRedisActivityBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize Redis broker: %v", err)
	}
	defer activityBroker.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	docRepo := repository.NewDocumentRepository(database.DB)
	scanRepo := repository.NewScanRepository(database.DB)
	creditRepo := repository.NewCreditRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, scanRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	scanService := service.NewScanService(docRepo, scanRepo, userRepo, corpusStore, activityBroker)
	creditService := service.NewCreditService(creditRepo, userRepo)

	// Create the operational admin account on first startup
	if err := authService.BootstrapAdmin(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminCredits); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	scanHandler := handler.NewScanHandler(scanService)
	creditHandler := handler.NewCreditHandler(creditService)
	adminHandler := handler.NewAdminHandler(creditService)
	activityHandler := handler.NewActivityHandler(activityBroker)

	if err := activityHandler.Start(); err != nil {
		log.Fatalf("Failed to start activity feed: %v", err)
	}

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(authService.IsProduction()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	rateLimiter := middleware.NewRateLimiter(activityBroker.Client(), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})
	router.Use(rateLimiter.Middleware())

	// Public routes
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Protected routes (require session token)
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, authService))
	{
		protected.GET("/user/profile", authHandler.Profile)
		protected.POST("/scanUpload", scanHandler.ScanUpload)
		protected.GET("/matches/:docId", scanHandler.Matches)
		protected.POST("/credits/request", creditHandler.RequestCredits)
	}

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/analytics", adminHandler.Analytics)
		admin.POST("/credits/approve", adminHandler.ApproveCredits)
		admin.POST("/credits/deny", adminHandler.DenyCredits)
		admin.GET("/activity", activityHandler.HandleActivityFeed)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
