package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"credit-dashboard/database"
	"credit-dashboard/handlers"
	"credit-dashboard/logger"
	"credit-dashboard/middleware"
	"credit-dashboard/services"
	"credit-dashboard/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	port := utils.GetEnv("PORT", "8090", log)
	dbPath := utils.GetEnv("DB_PATH", "credit_data.db", log)
	jwtSecret := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	sessionTTL := utils.GetEnvAsInt("SESSION_TTL", 86400, log)

	// Database
	sqliteService, err := database.NewSQLiteService(dbPath, log)
	if err != nil {
		log.Fatal("SQLite init failed", "error", err)
	}
	if err := sqliteService.AutoMigrateAll(); err != nil {
		log.Fatal("SQLite auto migration failed", "error", err)
	}
	if err := sqliteService.Seed(); err != nil {
		log.Fatal("Seeding demo data failed", "error", err)
	}
	db := sqliteService.DB()

	// Services
	analyticsService := services.NewAnalyticsService(db, log)
	authService := services.NewAuthService(db, log, jwtSecret, time.Duration(sessionTTL)*time.Second)

	// Handlers and middleware
	authHandler := handlers.NewAuthHandler(log, authService)
	pageHandler := handlers.NewPageHandler(log, analyticsService)
	apiHandler := handlers.NewAPIHandler(log, analyticsService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	gin.SetMode(utils.GetEnv("GIN_MODE", gin.ReleaseMode, nil))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:" + port},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	r.Static("/static", "./static")
	r.LoadHTMLGlob("templates/*")

	// Public
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/signup", authHandler.SignupPage)
	r.POST("/signup", authHandler.Signup)

	// Protected pages
	protected := r.Group("/")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/", func(c *gin.Context) {
			c.Redirect(302, "/dashboard")
		})
		protected.GET("/dashboard", pageHandler.Dashboard)
		protected.GET("/companies", pageHandler.Companies)
		protected.GET("/company/:company_id", pageHandler.CompanyDetail)
		protected.GET("/trends", pageHandler.Trends)
		protected.GET("/accuracy", pageHandler.Accuracy)
		protected.GET("/settings", pageHandler.Settings)
		protected.GET("/logout", authHandler.Logout)
	}

	// Protected API
	api := r.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/companies", apiHandler.Companies)
		api.GET("/score/:company_id", apiHandler.Score)
		api.GET("/scores/:company_id", apiHandler.Scores)
		api.GET("/feature_importance/:company_id", apiHandler.FeatureImportance)
		api.GET("/news/:company_id", apiHandler.News)
	}

	r.NoRoute(pageHandler.NotFound)

	log.Info("Starting Credit Dashboard", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}
}
