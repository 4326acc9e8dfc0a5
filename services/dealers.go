package services

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DealerCreateInput struct {
	Name          string `json:"name" validate:"required"`
	Plan          string `json:"plan"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
}

type DealerUpdateInput struct {
	Name     *string `json:"name"`
	Plan     *string `json:"plan"`
	Status   *string `json:"status"`
	IsActive *bool   `json:"is_active"`
}

var tenantSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

const tenantSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateTenantID derives a slug from the dealer name with a short random
// suffix so two dealers with the same name get distinct ids.
func generateTenantID(name string) string {
	slug := strings.Trim(tenantSlugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-"), "-")
	if slug == "" {
		slug = "dealer"
	}
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = tenantSuffixAlphabet[rand.Intn(len(tenantSuffixAlphabet))]
	}
	return slug + "-" + string(suffix)
}

// CreateDealer provisions a tenant, its dealer-admin user, and the plan's
// entitlements in one transaction. The subscription runs for a year from
// creation.
func CreateDealer(db *gorm.DB, in DealerCreateInput) (*models.Tenant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.Validation, "dealer name is required")
	}
	plan := in.Plan
	if plan == "" {
		plan = "standard"
	}
	if _, ok := models.PlanFeatures[plan]; !ok {
		return nil, apperr.Newf(apperr.InvalidPlan, "unknown plan %q (valid plans: %s)",
			plan, strings.Join(models.ValidPlans(), ", "))
	}

	var tenant *models.Tenant
	err := db.Transaction(func(tx *gorm.DB) error {
		tenantID := generateTenantID(in.Name)
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			tenantID = generateTenantID(in.Name)
		}

		now := time.Now().UTC()
		subEnd := now.AddDate(1, 0, 0)
		t := models.Tenant{
			ID:                tenantID,
			Name:              strings.TrimSpace(in.Name),
			Code:              tenantID,
			PlanID:            plan,
			Status:            models.TenantStatusActive,
			IsActive:          true,
			SubscriptionStart: &now,
			SubscriptionEnd:   &subEnd,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}

		adminName := in.AdminName
		if adminName == "" {
			adminName = "Dealer Admin"
		}
		user := models.User{
			TenantID:    tenantID,
			Email:       strings.ToLower(strings.TrimSpace(in.AdminEmail)),
			Username:    "dealer_admin",
			DisplayName: adminName,
			Role:        "dealer_admin",
		}
		user.SetPassword(in.AdminPassword)
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.New(apperr.Conflict, "admin email already registered")
			}
			return err
		}

		if err := InitializeEntitlements(tx, tenantID, plan); err != nil {
			return err
		}

		tenant = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// UpdateDealer patches tenant fields; a plan change re-initializes
// entitlements for the new plan.
func UpdateDealer(db *gorm.DB, tenantID string, in DealerUpdateInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, "id = ?", tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "tenant not found")
			}
			return err
		}

		updates := map[string]any{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Status != nil {
			switch *in.Status {
			case models.TenantStatusActive, models.TenantStatusSuspended, models.TenantStatusCancelled:
			default:
				return apperr.Newf(apperr.Validation, "unknown tenant status %q", *in.Status)
			}
			updates["status"] = *in.Status
		}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive
		}
		if in.Plan != nil && *in.Plan != tenant.PlanID {
			if err := InitializeEntitlements(tx, tenantID, *in.Plan); err != nil {
				return err
			}
			updates["plan_id"] = *in.Plan
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&tenant).Updates(updates).Error
	})
}

// DeleteDealer removes a tenant; owned users go with it via the storage
// cascade.
func DeleteDealer(db *gorm.DB, tenantID string) error {
	res := db.Delete(&models.Tenant{}, "id = ?", tenantID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "tenant not found")
	}
	return nil
}

// RequireTenant confirms a target tenant exists. Operations that accept a
// caller-supplied tenant id (elevated operators may name any tenant) call
// it before stamping rows with that id.
func RequireTenant(db *gorm.DB, tenantID string) error {
	var count int64
	if err := db.Model(&models.Tenant{}).Where("id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "tenant not found")
	}
	return nil
}

// ListDealers returns all tenants, newest first.
func ListDealers(db *gorm.DB) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := db.Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

type PlanInput struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Features datatypes.JSON  `json:"features"`
	IsActive bool            `json:"is_active"`
}

// CreatePlan adds a subscription plan.
func CreatePlan(db *gorm.DB, in PlanInput) error {
	var count int64
	if err := db.Model(&models.SubscriptionPlan{}).Where("id = ?", in.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.New(apperr.Conflict, "plan id already exists")
	}
	plan := models.SubscriptionPlan{
		ID:       in.ID,
		Name:     in.Name,
		Price:    in.Price,
		Features: in.Features,
		IsActive: in.IsActive,
	}
	return db.Create(&plan).Error
}

// UpdatePlan replaces a plan's mutable fields.
func UpdatePlan(db *gorm.DB, planID string, in PlanInput) error {
	var plan models.SubscriptionPlan
	if err := db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "plan not found")
		}
		return err
	}
	return db.Model(&plan).Updates(map[string]any{
		"name":      in.Name,
		"price":     in.Price,
		"features":  in.Features,
		"is_active": in.IsActive,
	}).Error
}

// DeactivatePlan soft-deletes a plan so existing tenants keep a valid
// reference.
func DeactivatePlan(db *gorm.DB, planID string) error {
	res := db.Model(&models.SubscriptionPlan{}).Where("id = ?", planID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "plan not found")
	}
	return nil
}

// ListPlans returns active subscription plans.
func ListPlans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := db.Where("is_active = ?", true).Order("price").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
