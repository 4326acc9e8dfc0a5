package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
)

// Lead is a CRM prospect; converting one creates a Customer that keeps a
// back-reference to its originating lead.
type Lead struct {
	Id         string  `json:"id" gorm:"primaryKey;size:36"`
	TenantID   string  `json:"tenant_id" gorm:"size:64;index;not null"`
	Name       string  `json:"name" gorm:"size:200;not null"`
	Phone      string  `json:"phone" gorm:"size:32"`
	Email      string  `json:"email" gorm:"size:255"`
	Source     string  `json:"source" gorm:"size:64"`
	Status     string  `json:"status" gorm:"size:16;default:new"`
	CustomerID *string `json:"customer_id" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (lead *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if lead.Id == "" {
		lead.Id = uuid.NewString()
	}
	return
}
