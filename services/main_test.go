package services

import (
	"testing"
	"time"

	"dealerdesk-backend/database"
	"dealerdesk-backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. Foreign keys are enabled
// so the invoice->item cascade behaves like the Postgres schema; the pool
// is pinned to one connection because each in-memory connection is its own
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, id string) models.Tenant {
	t.Helper()

	now := time.Now().UTC()
	tenant := models.Tenant{
		ID:                id,
		Name:              "Tenant " + id,
		Code:              id,
		PlanID:            "standard",
		Status:            models.TenantStatusActive,
		IsActive:          true,
		SubscriptionStart: &now,
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("seed tenant %s: %v", id, err)
	}
	return tenant
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID, name string, stock int) models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		TenantID:      tenantID,
		Name:          name,
		SKU:           "SKU-" + name,
		StockQuantity: stock,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return item
}
