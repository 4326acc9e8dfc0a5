package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is the only entity mutated by concurrent issuance
// workflows. StockQuantity never goes negative: decrements clamp at zero
// via a single atomic UPDATE (see services.IssueInvoice).
type InventoryItem struct {
	Id                string          `json:"id" gorm:"primaryKey;size:36"`
	TenantID          string          `json:"tenant_id" gorm:"size:64;index;not null"`
	Name              string          `json:"name" gorm:"size:200;not null"`
	SKU               string          `json:"sku" gorm:"size:100;index"`
	StockQuantity     int             `json:"stock_quantity" gorm:"not null;default:0"`
	Price             decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	LowStockThreshold int             `json:"low_stock_threshold" gorm:"default:5"`
	ImageURL          string          `json:"image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (item *InventoryItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	return
}
