package main

import (
	"fmt"
	"net/http"
	"os"

	"spendtrack/internal/config"
	"spendtrack/internal/database"
	"spendtrack/internal/handlers"
	"spendtrack/internal/logger"
	"spendtrack/internal/middleware"
	"spendtrack/internal/pagination"
	"spendtrack/internal/services"
	"spendtrack/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	pagination.DefaultPageSize = appConfig.PageSize

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	budgetService := services.NewBudgetService(db, categoryService)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, categoryService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(transactionService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthRequired())

	protected.GET("/logout", authHandler.Logout)
	protected.GET("/", reportHandler.Dashboard)

	// Expense routes
	protected.GET("/expenses", transactionHandler.ListExpenses)
	protected.GET("/add-expense", transactionHandler.NewExpense)
	protected.POST("/add-expense", transactionHandler.AddExpense)
	protected.GET("/edit-expense/:id", transactionHandler.EditExpense)
	protected.POST("/edit-expense/:id", transactionHandler.UpdateExpense)
	protected.GET("/delete-expense/:id", transactionHandler.DeleteExpense)

	// Category routes
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/delete-category/:id", categoryHandler.DeleteCategory)

	// Budget routes
	protected.GET("/budgets", budgetHandler.ListBudgets)
	protected.POST("/budgets", budgetHandler.UpsertBudget)
	protected.GET("/delete-budget/:id", budgetHandler.DeleteBudget)

	// Reports and export
	protected.GET("/reports", reportHandler.Reports)
	protected.GET("/export-csv", exportHandler.ExportCSV)
	protected.GET("/api/chart-data", reportHandler.ChartData)
	protected.GET("/api/session", authHandler.Session)

	log.Infof("Starting spendtrack server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
