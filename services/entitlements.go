package services

import (
	"errors"
	"strings"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitializeEntitlements seeds one enabled FeatureFlag per code in the
// plan's feature set. Safe to call repeatedly: each code is upserted, so a
// replan never creates duplicate rows, and codes outside the new plan's set
// are left untouched (stale flags are not cleared; pending product
// clarification).
func InitializeEntitlements(db *gorm.DB, tenantID, planID string) error {
	codes, ok := models.PlanFeatures[planID]
	if !ok {
		return apperr.Newf(apperr.InvalidPlan, "unknown plan %q (valid plans: %s)",
			planID, strings.Join(models.ValidPlans(), ", "))
	}

	for _, code := range codes {
		flag := models.FeatureFlag{
			TenantID:    tenantID,
			FeatureCode: code,
			IsEnabled:   true,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature_code"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_enabled": true}),
		}).Create(&flag).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ToggleEntitlement enables or disables a feature for a tenant with upsert
// semantics: update the row if it exists, insert otherwise. Never
// duplicates.
func ToggleEntitlement(db *gorm.DB, tenantID, featureCode string, enabled bool) error {
	if strings.TrimSpace(featureCode) == "" {
		return apperr.New(apperr.Validation, "feature code is required")
	}
	flag := models.FeatureFlag{
		TenantID:    tenantID,
		FeatureCode: featureCode,
		IsEnabled:   enabled,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature_code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_enabled": enabled}),
	}).Create(&flag).Error
}

// IsEntitled reports whether a feature is usable by a tenant. Absence of a
// flag means disabled, and a missing or suspended tenant is disabled for
// everything regardless of stored flags.
func IsEntitled(db *gorm.DB, tenantID, featureCode string) (bool, error) {
	var tenant models.Tenant
	if err := db.First(&tenant, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !tenant.Operable() {
		return false, nil
	}

	var flag models.FeatureFlag
	err := db.Where("tenant_id = ? AND feature_code = ?", tenantID, featureCode).First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return flag.IsEnabled, nil
}

// FeatureState is one row of a tenant's entitlement listing.
type FeatureState struct {
	FeatureCode string `json:"feature_code"`
	FeatureName string `json:"feature_name"`
	IsEnabled   bool   `json:"is_enabled"`
}

// ListEntitlements returns every stored flag for a tenant with display
// names resolved.
func ListEntitlements(db *gorm.DB, tenantID string) ([]FeatureState, error) {
	var flags []models.FeatureFlag
	if err := db.Where("tenant_id = ?", tenantID).Order("feature_code").Find(&flags).Error; err != nil {
		return nil, err
	}
	out := make([]FeatureState, 0, len(flags))
	for _, f := range flags {
		name := models.FeatureCodes[f.FeatureCode]
		if name == "" {
			name = f.FeatureCode
		}
		out = append(out, FeatureState{
			FeatureCode: f.FeatureCode,
			FeatureName: name,
			IsEnabled:   f.IsEnabled,
		})
	}
	return out, nil
}
