package database

import (
	"fmt"
	"os"

	"dealerdesk-backend/logger"
	"dealerdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the shared Postgres connection and runs migrations.
func Connect() {
	if err := godotenv.Load(); err != nil {
		logger.L().Warn("no .env file loaded", zap.Error(err))
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=disable TimeZone=UTC",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.L().Fatal("could not connect to database", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

// AutoMigrate creates/updates tables for every model. Kept separate from
// Migrate so tests can run it against their own database handle.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.SubscriptionPlan{},
		&models.User{},
		&models.FeatureFlag{},
		&models.Lead{},
		&models.Customer{},
		&models.Vehicle{},
		&models.InventoryItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.IdempotencyKey{},
	)
}

// FromCtx returns the DB handle for the current request: the per-request
// transaction when middlewares.Tx opened one, else the shared connection.
func FromCtx(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return DB
}
