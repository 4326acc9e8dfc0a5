package services

import (
	"testing"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/models"
)

func TestCreateDealerProvisions(t *testing.T) {
	db := newTestDB(t)

	tenant, err := CreateDealer(db, DealerCreateInput{
		Name:          "Sunrise Motors",
		Plan:          "premium",
		AdminEmail:    "Owner@Sunrise.example ",
		AdminPassword: "s3cret",
		AdminName:     "Priya",
	})
	if err != nil {
		t.Fatalf("create dealer: %v", err)
	}
	if tenant.ID == "" || tenant.Code != tenant.ID {
		t.Errorf("tenant id/code = %q/%q", tenant.ID, tenant.Code)
	}
	if tenant.PlanID != "premium" || !tenant.Operable() {
		t.Errorf("plan = %s operable = %v", tenant.PlanID, tenant.Operable())
	}
	if tenant.SubscriptionEnd == nil || !tenant.SubscriptionEnd.After(*tenant.SubscriptionStart) {
		t.Error("subscription window not set")
	}

	var admin models.User
	if err := db.First(&admin, "tenant_id = ?", tenant.ID).Error; err != nil {
		t.Fatalf("admin user not created: %v", err)
	}
	if admin.Email != "owner@sunrise.example" {
		t.Errorf("admin email = %q, want lowercased trimmed", admin.Email)
	}
	if admin.Role != "dealer_admin" {
		t.Errorf("admin role = %q", admin.Role)
	}
	if err := admin.ComparePassword("s3cret"); err != nil {
		t.Error("stored password hash does not match")
	}

	var flags int64
	db.Model(&models.FeatureFlag{}).Where("tenant_id = ? AND is_enabled = ?", tenant.ID, true).Count(&flags)
	if int(flags) != len(models.PlanFeatures["premium"]) {
		t.Errorf("enabled flags = %d, want %d", flags, len(models.PlanFeatures["premium"]))
	}
}

func TestCreateDealerInvalidPlan(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateDealer(db, DealerCreateInput{
		Name:       "Sunrise Motors",
		Plan:       "gold",
		AdminEmail: "owner@sunrise.example",
	})
	if !apperr.IsKind(err, apperr.InvalidPlan) {
		t.Fatalf("err = %v, want InvalidPlan", err)
	}

	var tenants int64
	db.Model(&models.Tenant{}).Count(&tenants)
	if tenants != 0 {
		t.Error("failed provisioning must not leave a tenant behind")
	}
}

func TestCreateDealerDuplicateEmailRollsBack(t *testing.T) {
	db := newTestDB(t)

	if _, err := CreateDealer(db, DealerCreateInput{
		Name:       "Sunrise Motors",
		AdminEmail: "owner@sunrise.example",
	}); err != nil {
		t.Fatal(err)
	}

	_, err := CreateDealer(db, DealerCreateInput{
		Name:       "Sunset Motors",
		AdminEmail: "owner@sunrise.example",
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("err = %v, want Conflict", err)
	}

	var tenants int64
	db.Model(&models.Tenant{}).Count(&tenants)
	if tenants != 1 {
		t.Errorf("tenants = %d, want 1 (second provisioning rolled back)", tenants)
	}
}

func TestUpdateDealerPlanChangeReplans(t *testing.T) {
	db := newTestDB(t)

	tenant, err := CreateDealer(db, DealerCreateInput{
		Name:       "Sunrise Motors",
		Plan:       "basic",
		AdminEmail: "owner@sunrise.example",
	})
	if err != nil {
		t.Fatal(err)
	}

	plan := "standard"
	if err := UpdateDealer(db, tenant.ID, DealerUpdateInput{Plan: &plan}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var reloaded models.Tenant
	if err := db.First(&reloaded, "id = ?", tenant.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.PlanID != "standard" {
		t.Errorf("plan = %s, want standard", reloaded.PlanID)
	}
	enabled, err := IsEntitled(db, tenant.ID, "pos_system")
	if err != nil {
		t.Fatal(err)
	}
	if !enabled {
		t.Error("standard feature not enabled after replan")
	}

	bad := "gold"
	if err := UpdateDealer(db, tenant.ID, DealerUpdateInput{Plan: &bad}); !apperr.IsKind(err, apperr.InvalidPlan) {
		t.Fatalf("err = %v, want InvalidPlan", err)
	}
}

func TestUpdateDealerStatus(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "dealer-001")

	status := models.TenantStatusSuspended
	if err := UpdateDealer(db, "dealer-001", DealerUpdateInput{Status: &status}); err != nil {
		t.Fatal(err)
	}
	var tenant models.Tenant
	if err := db.First(&tenant, "id = ?", "dealer-001").Error; err != nil {
		t.Fatal(err)
	}
	if tenant.Operable() {
		t.Error("suspended tenant must not be operable")
	}

	bogus := "frozen"
	if err := UpdateDealer(db, "dealer-001", DealerUpdateInput{Status: &bogus}); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}

	if err := UpdateDealer(db, "ghost", DealerUpdateInput{Status: &status}); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestDeleteDealerCascadesUsers(t *testing.T) {
	db := newTestDB(t)

	tenant, err := CreateDealer(db, DealerCreateInput{
		Name:       "Sunrise Motors",
		AdminEmail: "owner@sunrise.example",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteDealer(db, tenant.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var users int64
	db.Model(&models.User{}).Where("tenant_id = ?", tenant.ID).Count(&users)
	if users != 0 {
		t.Errorf("orphaned users = %d, want 0", users)
	}

	if err := DeleteDealer(db, tenant.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("second delete err = %v, want NotFound", err)
	}
}

func TestGenerateTenantID(t *testing.T) {
	id := generateTenantID("  Sunrise Motors & Co.  ")
	if len(id) < 5 {
		t.Fatalf("id too short: %q", id)
	}
	if id[:len(id)-5] != "sunrise-motors-co" {
		t.Errorf("slug part = %q, want sunrise-motors-co", id[:len(id)-5])
	}
	if generateTenantID("Sunrise") == generateTenantID("Sunrise") {
		t.Error("suffix should differ between calls")
	}
	if got := generateTenantID("!!!"); got[:6] != "dealer" {
		t.Errorf("fallback slug = %q", got)
	}
}
