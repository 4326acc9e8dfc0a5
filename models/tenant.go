package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusCancelled = "cancelled"
)

// Tenant is a dealer account. The id doubles as the tenant slug carried in
// JWT claims and stamped on every tenant-scoped row.
type Tenant struct {
	ID     string `json:"id" gorm:"primaryKey;size:64"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Code   string `json:"code" gorm:"size:64;uniqueIndex;not null"`
	PlanID string `json:"plan_id" gorm:"size:32"`

	Status   string `json:"status" gorm:"size:16;default:active"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	SubscriptionStart *time.Time `json:"subscription_start"`
	SubscriptionEnd   *time.Time `json:"subscription_end"`

	Users []User `json:"-" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Operable reports whether the tenant may use any feature at all. Both the
// kill switch and the lifecycle status must agree.
func (tenant *Tenant) Operable() bool {
	return tenant.IsActive && tenant.Status == TenantStatusActive
}

// SubscriptionPlan is a priced feature bundle. Features holds the JSON code
// list shown to admins; the authoritative plan -> code mapping used at
// provisioning time is PlanFeatures.
type SubscriptionPlan struct {
	ID       string          `json:"id" gorm:"primaryKey;size:32"`
	Name     string          `json:"name" gorm:"size:100;not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Features datatypes.JSON  `json:"features"`
	IsActive bool            `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
