package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stored invoice statuses. The external vocabulary (DUE/PARTIAL/PAID) is
// wider than this set: PAID maps to paid, everything else to pending.
// "partial" exists only for rows written outside the issuance workflow;
// the read path still maps it back to PARTIAL.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
)

// Invoice is immutable once created except for status transitions.
// TotalAmount equals the sum of its items' amounts, computed once at
// issuance and never recomputed.
type Invoice struct {
	Id         string  `json:"id" gorm:"primaryKey;size:36"`
	TenantID   string  `json:"tenant_id" gorm:"size:64;index;not null"`
	CustomerID *string `json:"customer_id" gorm:"size:36;index"`
	VehicleID  *string `json:"vehicle_id" gorm:"size:36;index"`

	Number      string          `json:"number" gorm:"size:32;uniqueIndex;not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	Status      string          `json:"status" gorm:"size:24;default:pending"`

	Items []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	IssuedAt  time.Time `json:"issued_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.Id == "" {
		invoice.Id = uuid.NewString()
	}
	return
}

// InvoiceItem is a frozen snapshot of a sold line. Name and Rate are copied
// at issuance; later edits to the referenced InventoryItem never change
// historical invoices.
type InvoiceItem struct {
	Id        string  `json:"id" gorm:"primaryKey;size:36"`
	InvoiceID string  `json:"-" gorm:"size:36;index;not null"`
	ProductID *string `json:"product_id" gorm:"size:36;index"`

	Name    string          `json:"name" gorm:"size:200;not null"`
	Qty     int             `json:"qty" gorm:"not null"`
	Rate    decimal.Decimal `json:"rate" gorm:"type:numeric(12,2)"`
	TaxRate decimal.Decimal `json:"tax_rate" gorm:"type:numeric(5,2)"`
	Amount  decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}

func (item *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	return
}
