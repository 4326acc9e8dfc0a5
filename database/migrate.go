package database

import (
	"encoding/json"
	"fmt"

	"dealerdesk-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Foreign keys with the cascade rules the workflows rely on
//   (invoice_items -> invoices CASCADE, users -> tenants CASCADE)
// - Basic CHECK constraints (non-negative stock and amounts)
// - Subscription plan seed rows
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := AutoMigrate(tx); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE subscription_plans ALTER COLUMN price        TYPE numeric(12,2)`,
			`ALTER TABLE inventory_items    ALTER COLUMN price        TYPE numeric(12,2)`,
			`ALTER TABLE invoices           ALTER COLUMN total_amount TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items      ALTER COLUMN rate         TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items      ALTER COLUMN tax_rate     TYPE numeric(5,2)`,
			`ALTER TABLE invoice_items      ALTER COLUMN amount       TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Cascade foreign keys (storage-level, not application loops) ---
		fks := []struct{ name, stmt string }{
			{
				"fk_invoice_items_invoice",
				`ALTER TABLE invoice_items
				 ADD CONSTRAINT fk_invoice_items_invoice
				 FOREIGN KEY (invoice_id) REFERENCES invoices(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_users_tenant",
				`ALTER TABLE users
				 ADD CONSTRAINT fk_users_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			// Tenant-scoped tables follow the tenant row out, so deleting a
			// dealer leaves no orphaned data behind.
			{
				"fk_feature_flags_tenant",
				`ALTER TABLE feature_flags
				 ADD CONSTRAINT fk_feature_flags_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_customers_tenant",
				`ALTER TABLE customers
				 ADD CONSTRAINT fk_customers_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_vehicles_tenant",
				`ALTER TABLE vehicles
				 ADD CONSTRAINT fk_vehicles_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_leads_tenant",
				`ALTER TABLE leads
				 ADD CONSTRAINT fk_leads_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_inventory_items_tenant",
				`ALTER TABLE inventory_items
				 ADD CONSTRAINT fk_inventory_items_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
			{
				"fk_invoices_tenant",
				`ALTER TABLE invoices
				 ADD CONSTRAINT fk_invoices_tenant
				 FOREIGN KEY (tenant_id) REFERENCES tenants(id)
				 ON DELETE CASCADE`,
			},
		}
		for _, fk := range fks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = '%s'
	) THEN
		%s;
	END IF;
END $$;`, fk.name, fk.stmt)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed on %s: %w", fk.name, err)
			}
		}

		// --- CHECK constraints (idempotent) ---
		checks := []struct{ name, stmt string }{
			{
				"chk_inventory_items_stock_nonneg",
				`ALTER TABLE inventory_items
				 ADD CONSTRAINT chk_inventory_items_stock_nonneg
				 CHECK (stock_quantity >= 0)`,
			},
			{
				"chk_invoice_items_qty_positive",
				`ALTER TABLE invoice_items
				 ADD CONSTRAINT chk_invoice_items_qty_positive
				 CHECK (qty > 0)`,
			},
			{
				"chk_invoice_items_amount_nonneg",
				`ALTER TABLE invoice_items
				 ADD CONSTRAINT chk_invoice_items_amount_nonneg
				 CHECK (amount >= 0)`,
			},
		}
		for _, chk := range checks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = '%s'
	) THEN
		%s;
	END IF;
END $$;`, chk.name, chk.stmt)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", chk.name, err)
			}
		}

		return SeedPlans(tx)
	})
}

// SeedPlans inserts the standard subscription plans when absent. Existing
// rows are left alone so price edits made through the admin API survive
// restarts.
func SeedPlans(db *gorm.DB) error {
	seeds := []struct {
		id, name string
		price    string
	}{
		{"basic", "Basic", "49.00"},
		{"standard", "Standard", "99.00"},
		{"premium", "Premium", "199.00"},
		{"enterprise", "Enterprise", "499.00"},
	}

	for _, s := range seeds {
		var count int64
		if err := db.Model(&models.SubscriptionPlan{}).Where("id = ?", s.id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		features, err := json.Marshal(models.PlanFeatures[s.id])
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return err
		}
		plan := models.SubscriptionPlan{
			ID:       s.id,
			Name:     s.name,
			Price:    price,
			Features: features,
			IsActive: true,
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
