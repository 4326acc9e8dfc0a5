package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is created explicitly or implicitly during invoice issuance
// (find-or-create by name+phone within the tenant).
type Customer struct {
	Id       string  `json:"id" gorm:"primaryKey;size:36"`
	TenantID string  `json:"tenant_id" gorm:"size:64;index;not null"`
	Name     string  `json:"name" gorm:"size:200;not null"`
	Email    string  `json:"email" gorm:"size:255;index"`
	Phone    string  `json:"phone" gorm:"size:32;index"`
	Address  string  `json:"address" gorm:"size:255"`
	LeadID   *string `json:"lead_id" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if customer.Id == "" {
		customer.Id = uuid.NewString()
	}
	return
}
