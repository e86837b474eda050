package main

import (
	"homerent/internal/apperror"
	"homerent/internal/handler"
	"homerent/internal/middleware"
	"homerent/pkg/config"
	"homerent/pkg/database"
	"homerent/pkg/jwtutil"
	"homerent/pkg/logger"
	"homerent/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting rental service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Image uploads land here and are served under /images
	handler.SetUploadDir(cfg.Upload.Dir)

	// Initialize Echo framework
	e := echo.New()
	e.HTTPErrorHandler = apperror.Handler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.Authenticate)
	e.Use(middleware.Authorize)

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.Static("/images", cfg.Upload.Dir)

	// Authentication and registration
	e.POST("/login", handler.Login)

	// User management
	e.POST("/user", handler.CreateUser)
	e.GET("/user/:email", handler.GetUser)
	e.PUT("/user/update", handler.UpdateUser)
	e.PUT("/user/update/password", handler.UpdateUserPassword)
	e.DELETE("/user", handler.DeleteUser)

	// House listings
	e.GET("/house/:id", handler.GetHouse)
	e.GET("/house", handler.ListHouses)
	e.POST("/house", handler.CreateHouse)
	e.POST("/house/images", handler.UploadHouseImage)
	e.PUT("/house/:id", handler.UpdateHouse)
	e.DELETE("/house/:id", handler.DeleteHouse)

	// Rent lifecycle
	e.POST("/rent", handler.CreateRent)
	e.GET("/rent/locator", handler.RentsLocator)
	e.GET("/rent/owner", handler.RentsOwner)
	e.PUT("/rent/accept", handler.AcceptRent)
	e.DELETE("/rent/:id", handler.DeleteRent)

	// Reviews
	e.GET("/review/house/:id", handler.GetHouseReviews)
	e.GET("/review/user/:email", handler.GetUserReviews)
	e.POST("/review/house", handler.CreateHouseReview)
	e.POST("/review/user", handler.CreateUserReview)

	// Chats between owners and interested parties
	e.POST("/chat", handler.CreateChat)
	e.GET("/chat", handler.ListChats)
	e.GET("/chat/:id/messages", handler.GetChatMessages)
	e.POST("/chat/message", handler.SendMessage)
	e.POST("/chat/message/image", handler.SendImageMessage)
	e.PUT("/chat/message/:id/read", handler.MarkMessageRead)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
