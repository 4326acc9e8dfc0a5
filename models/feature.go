package models

import (
	"sort"
	"time"
)

// FeatureFlag maps (tenant, feature code) to an enabled bit. The composite
// unique index is the invariant: at most one row per pair, upserts only.
type FeatureFlag struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	TenantID    string `json:"tenant_id" gorm:"size:64;not null;uniqueIndex:idx_feature_flags_tenant_code,priority:1"`
	FeatureCode string `json:"feature_code" gorm:"size:50;not null;uniqueIndex:idx_feature_flags_tenant_code,priority:2"`
	IsEnabled   bool   `json:"is_enabled" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeatureCodes maps every known code to its display name.
var FeatureCodes = map[string]string{
	"pos_system":           "Point of Sale System",
	"crm_basic":            "Basic CRM & Leads",
	"crm_advanced":         "Advanced CRM Features",
	"inventory_basic":      "Basic Inventory Management",
	"inventory_advanced":   "Advanced Inventory & Analytics",
	"whatsapp_integration": "WhatsApp Messaging",
	"email_integration":    "Email Marketing",
	"sms_integration":      "SMS Notifications",
	"ai_tools":             "AI-Powered Tools",
	"custom_branding":      "White-Label/Custom Branding",
	"api_access":           "API Access",
	"webhooks":             "Webhook Integration",
	"basic_reports":        "Basic Reports",
	"advanced_reports":     "Advanced Analytics & Reports",
	"custom_reports":       "Custom Report Builder",
	"multi_location":       "Multiple Branch Support",
	"multi_currency":       "Multi-Currency Support",
	"unlimited_users":      "Unlimited Staff Users",
	"unlimited_customers":  "Unlimited Customers",
	"unlimited_storage":    "Unlimited Data Storage",
}

// PlanFeatures is the static plan -> feature-code mapping consulted when a
// tenant is provisioned or re-planned.
var PlanFeatures = map[string][]string{
	"basic": {
		"crm_basic",
		"inventory_basic",
		"basic_reports",
	},
	"standard": {
		"pos_system",
		"crm_basic",
		"crm_advanced",
		"inventory_basic",
		"whatsapp_integration",
		"basic_reports",
	},
	"premium": {
		"pos_system",
		"crm_basic",
		"crm_advanced",
		"inventory_basic",
		"inventory_advanced",
		"whatsapp_integration",
		"email_integration",
		"sms_integration",
		"basic_reports",
		"advanced_reports",
		"api_access",
		"multi_location",
	},
	"enterprise": {
		"pos_system",
		"crm_basic",
		"crm_advanced",
		"inventory_basic",
		"inventory_advanced",
		"whatsapp_integration",
		"email_integration",
		"sms_integration",
		"ai_tools",
		"custom_branding",
		"api_access",
		"webhooks",
		"basic_reports",
		"advanced_reports",
		"custom_reports",
		"multi_location",
		"multi_currency",
		"unlimited_users",
		"unlimited_customers",
		"unlimited_storage",
	},
}

// ValidPlans returns the known plan ids, sorted for stable error messages.
func ValidPlans() []string {
	plans := make([]string, 0, len(PlanFeatures))
	for id := range PlanFeatures {
		plans = append(plans, id)
	}
	sort.Strings(plans)
	return plans
}
