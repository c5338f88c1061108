package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/socialhub/backend/internal/handlers"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/realtime"
	"github.com/socialhub/backend/internal/repositories"
	"github.com/socialhub/backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, hub *realtime.Hub) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Share{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	shareRepo := repositories.NewPostgresShareRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("socialhub"))

	// --- Initialize Services ---
	notifier := services.NewNotifierService(notificationRepo, hub)
	graph := services.NewGraphService(followRepo, userRepo, notifier)
	engagement := services.NewEngagementService(likeRepo, commentRepo, shareRepo, postRepo, userRepo, notifier)
	feed := services.NewFeedService(postRepo, followRepo, likeRepo)
	trending := services.NewTrendingService(postRepo, likeRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public read routes (anonymous callers tolerated) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterPublicUserRoutes(public)

	postHandler := handlers.NewPostHandler(postRepo, likeRepo, commentRepo, shareRepo, engagement)
	postHandler.RegisterPublicPostRoutes(public)

	commentHandler := handlers.NewCommentHandler(engagement)
	commentHandler.RegisterPublicCommentRoutes(public)

	followHandler := handlers.NewFollowHandler(graph)
	followHandler.RegisterPublicFollowRoutes(public)

	feedHandler := handlers.NewFeedHandler(feed, trending)
	feedHandler.RegisterPublicFeedRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(firebaseAuthClient, userRepo))
	log.Println("Authentication middleware applied to /api/v1 group.")

	userHandler.RegisterProfileRoutes(api)
	postHandler.RegisterPostRoutes(api)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(engagement)
	likeHandler.RegisterLikeRoutes(api)

	followHandler.RegisterFollowRoutes(api)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notifier, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	wsHandler := handlers.NewWSHandler(hub)
	wsHandler.RegisterWSRoutes(api)

	log.Println("All routes configured.")
}
