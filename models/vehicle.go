package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle belongs to a customer; issuance upserts by VIN within the tenant.
type Vehicle struct {
	Id             string `json:"id" gorm:"primaryKey;size:36"`
	TenantID       string `json:"tenant_id" gorm:"size:64;index;not null"`
	CustomerID     string `json:"customer_id" gorm:"size:36;index;not null"`
	Make           string `json:"make" gorm:"size:100"`
	Model          string `json:"model" gorm:"size:100"`
	Year           int    `json:"year"`
	VIN            string `json:"vin" gorm:"size:64;index"`
	ChassisNo      string `json:"chassis_no" gorm:"size:64"`
	RegistrationNo string `json:"registration_no" gorm:"size:32"`
	Active         bool   `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (vehicle *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if vehicle.Id == "" {
		vehicle.Id = uuid.NewString()
	}
	return
}
