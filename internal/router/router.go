// Package router assembles the HTTP API: global middleware, the public and
// authenticated route groups, health and API docs.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Bilal-BS/PF-Tracker/internal/config"
	"github.com/Bilal-BS/PF-Tracker/internal/handlers"
	"github.com/Bilal-BS/PF-Tracker/internal/middleware"
	"github.com/Bilal-BS/PF-Tracker/internal/services"
	"github.com/Bilal-BS/PF-Tracker/internal/validator"
)

// New wires services and handlers on db and returns the ready engine.
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	validator.Register()

	userService := services.NewUserService(db, cfg.BcryptCost)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	summaryService := services.NewSummaryService(db)
	auditService := services.NewAuditService(db)

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur)

	authHandler := handlers.NewAuthHandler(userService, auditService, tokens)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, summaryService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/auth/profile", authHandler.GetProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	return router
}
