package main

import (
	"context"
	"log"
	"os"
	"time"

	_ "cmcs-backend/api/swagger" // swagger docs
	"cmcs-backend/internal/database"
	"cmcs-backend/internal/handler"
	"cmcs-backend/internal/middleware"
	"cmcs-backend/internal/repository"
	"cmcs-backend/internal/service"
	"cmcs-backend/internal/storage"
	"cmcs-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Contract Monthly Claim System API
// @version         1.0
// @description     API for lecturer claim submission, coordinator verification, manager approval and HR administration.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "cmcs"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore, err := storage.NewLocalStore(uploadDir)
	if err != nil {
		log.Fatalf("Upload directory setup failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	claimRepo := repository.NewClaimRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Expired refresh tokens accumulate otherwise; sweep them daily
	go func() {
		for {
			if err := refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
				log.Println("Refresh token sweep failed:", err)
			}
			time.Sleep(24 * time.Hour)
		}
	}()

	userService := service.NewUserService(userRepo, refreshTokenRepo)
	lifecycleService := service.NewLifecycleService(txManager, claimRepo, historyRepo, wsHub)
	claimService := service.NewClaimService(txManager, claimRepo, historyRepo, userRepo, moduleRepo)
	dashboardService := service.NewDashboardService(claimRepo)
	moduleService := service.NewModuleService(moduleRepo)
	documentService := service.NewDocumentService(claimRepo, documentRepo, fileStore)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	claimHandler := handler.NewClaimHandler(claimService, documentService)
	approvalHandler := handler.NewApprovalHandler(lifecycleService, claimService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	moduleHandler := handler.NewModuleHandler(moduleService)
	historyHandler := handler.NewHistoryHandler(historyRepo)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for live claim events
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	claimHandler.RegisterRoutes(router.Group(""))
	approvalHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))
	moduleHandler.RegisterRoutes(router.Group(""))
	historyHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
