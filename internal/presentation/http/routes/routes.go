package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matconsys/matcon-api/internal/config"
	domainRepo "github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/internal/presentation/http/handler"
	"github.com/matconsys/matcon-api/internal/presentation/http/middleware"
	"github.com/matconsys/matcon-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Cash       *handler.CashHandler
	Receivable *handler.ReceivableHandler
	Sale       *handler.SaleHandler
	Product    *handler.ProductHandler
	Party      *handler.PartyHandler
	Report     *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Retried mutations replay their stored response
		protected.Use(middleware.Idempotency(deps.IdempotencyRepo))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile routes
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// User administration
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.POST("", h.Auth.Register)
		users.GET("", h.Auth.ListUsers)
		users.POST("/:id/roles", h.Auth.AssignRole)
		users.DELETE("/:id", h.Auth.DeactivateUser)
	}

	// Cash sessions
	cash := protected.Group("/cash-sessions")
	cash.Use(middleware.RequirePermission("operate-cashier"))
	{
		cash.POST("", h.Cash.Open)
		cash.GET("", h.Cash.List)
		cash.GET("/current", h.Cash.GetCurrent)
		cash.GET("/:id", h.Cash.Get)
		cash.GET("/:id/entries", h.Cash.ListEntries)
		cash.POST("/:id/entries", h.Cash.RecordMovement)
		cash.POST("/:id/close", h.Cash.Close)
	}

	// Receivables
	receivables := protected.Group("/receivables")
	receivables.Use(middleware.RequirePermission("manage-receivables"))
	{
		receivables.POST("", h.Receivable.Create)
		receivables.GET("", h.Receivable.List)
		receivables.GET("/export/csv", h.Receivable.ExportCSV)
		receivables.GET("/export/xlsx", h.Receivable.ExportXLSX)
		receivables.POST("/import", h.Receivable.Import)
		receivables.POST("/settle", h.Receivable.Settle)
		receivables.GET("/:id", h.Receivable.Get)
		receivables.PUT("/:id", h.Receivable.Update)
		receivables.DELETE("/:id", h.Receivable.Delete)
	}

	// Sales
	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.POST("", h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
	}

	// Products
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	// Categories
	categories := protected.Group("/categories")
	categories.Use(middleware.RequirePermission("manage-categories"))
	{
		categories.POST("", h.Product.CreateCategory)
		categories.GET("", h.Product.ListCategories)
		categories.DELETE("/:id", h.Product.DeleteCategory)
	}

	// Customers
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.POST("", h.Party.CreateCustomer)
		customers.GET("", h.Party.ListCustomers)
		customers.GET("/:id", h.Party.GetCustomer)
		customers.PUT("/:id", h.Party.UpdateCustomer)
		customers.DELETE("/:id", h.Party.DeleteCustomer)
	}

	// Suppliers
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission("manage-suppliers"))
	{
		suppliers.POST("", h.Party.CreateSupplier)
		suppliers.GET("", h.Party.ListSuppliers)
		suppliers.GET("/:id", h.Party.GetSupplier)
		suppliers.PUT("/:id", h.Party.UpdateSupplier)
		suppliers.DELETE("/:id", h.Party.DeleteSupplier)
	}

	// Reports
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/daily", h.Report.Daily)
		reports.GET("/period", h.Report.Period)
	}
}
