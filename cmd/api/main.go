package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/matconsys/matcon-api/internal/application/service"
	"github.com/matconsys/matcon-api/internal/config"
	"github.com/matconsys/matcon-api/internal/infrastructure/database"
	"github.com/matconsys/matcon-api/internal/infrastructure/repository"
	"github.com/matconsys/matcon-api/internal/presentation/http/handler"
	"github.com/matconsys/matcon-api/internal/presentation/http/routes"
	"github.com/matconsys/matcon-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	entryRepo := repository.NewLedgerEntryRepository(db)
	receivableRepo := repository.NewReceivableRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	cashService := service.NewCashService(sessionRepo, entryRepo)
	receivableService := service.NewReceivableService(receivableRepo)
	importService := service.NewImportService(receivableRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, sessionRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	customerService := service.NewCustomerService(customerRepo, supplierRepo)
	reportService := service.NewReportService(entryRepo, receivableRepo, saleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Cash:       handler.NewCashHandler(cashService),
		Receivable: handler.NewReceivableHandler(receivableService, importService),
		Sale:       handler.NewSaleHandler(saleService),
		Product:    handler.NewProductHandler(productService),
		Party:      handler.NewPartyHandler(customerService),
		Report:     handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
