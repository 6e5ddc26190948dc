package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/matconsys/matcon-api/internal/config"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Party entities
		&entity.Customer{},
		&entity.Supplier{},

		// Cash and settlement entities
		&entity.CashSession{},
		&entity.LedgerEntry{},
		&entity.Receivable{},

		// Sales entities
		&entity.Sale{},
		&entity.SaleItem{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one open session at a time, enforced at the database level so
	// concurrent opens cannot race past the service check.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_single_open
		 ON cash_sessions (status) WHERE status = 'open'`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to create open-session index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default roles, permissions and,
// when configured, an admin user
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: "operate-cashier"},
		{Name: "manage-receivables"},
		{Name: "manage-sales"},
		{Name: "manage-products"},
		{Name: "manage-categories"},
		{Name: "manage-customers"},
		{Name: "manage-suppliers"},
		{Name: "view-reports"},
		{Name: "manage-users"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	pick := func(names ...string) []entity.Permission {
		var out []entity.Permission
		for _, name := range names {
			for _, p := range allPermissions {
				if p.Name == name {
					out = append(out, p)
					break
				}
			}
		}
		return out
	}

	seedRole := func(name string, perms []entity.Permission) {
		var role entity.Role
		if err := db.Where("name = ?", name).First(&role).Error; err != nil {
			role = entity.Role{Name: name, Permissions: perms}
			if err := db.Create(&role).Error; err != nil {
				log.Printf("Warning: failed to create %s role: %v", name, err)
			}
		}
	}

	// Admin gets everything
	seedRole("admin", allPermissions)

	// Manager runs the back office but does not administer accounts
	seedRole("manager", pick(
		"operate-cashier",
		"manage-receivables",
		"manage-sales",
		"manage-products",
		"manage-categories",
		"manage-customers",
		"manage-suppliers",
		"view-reports",
	))

	// Cashier covers the front counter only
	seedRole("cashier", pick(
		"operate-cashier",
		"manage-sales",
		"manage-customers",
	))

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				var adminRole entity.Role
				if err := db.Where("name = ?", "admin").First(&adminRole).Error; err == nil {
					if adminName == "" {
						adminName = "Administrador"
					}
					firstName := adminName
					lastName := ""
					if idx := strings.Index(adminName, " "); idx > 0 {
						firstName = adminName[:idx]
						lastName = adminName[idx+1:]
					}

					admin := entity.User{
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						IsActive:  true,
						Roles:     []entity.Role{adminRole},
					}
					if err := db.Create(&admin).Error; err != nil {
						log.Printf("Warning: failed to create admin user: %v", err)
					} else {
						log.Printf("Created admin user %s", adminEmail)
					}
				}
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
