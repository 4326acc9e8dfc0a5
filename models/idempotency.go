package models

import "time"

// IdempotencyKey stores the first successful response for a given request
// hash. Uniqueness is per (tenant, key): the same key value used by
// another tenant is a different key and never observable across tenants.
type IdempotencyKey struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Key            string     `json:"key" gorm:"size:128;uniqueIndex:idx_idempotency_keys_tenant_key,priority:2"` // header value
	RequestHash    string     `json:"request_hash" gorm:"size:64"`                                                // sha256 of method|path|body|tenant|user
	Method         string     `json:"method" gorm:"size:10"`
	Path           string     `json:"path" gorm:"size:255"`
	TenantID       string     `json:"tenant_id" gorm:"size:64;uniqueIndex:idx_idempotency_keys_tenant_key,priority:1"`
	UserID         string     `json:"user_id" gorm:"size:128"`
	ResponseStatus int        `json:"response_status"`     // 0 => not completed yet
	ResponseBody   []byte     `json:"-" gorm:"type:bytea"` // raw response body (JSON)
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}
