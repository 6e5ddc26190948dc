package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores the response of a completed mutating request so
// that retries with the same key replay it instead of executing twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Key          string    `gorm:"size:255;uniqueIndex;not null" json:"key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Method       string    `gorm:"size:10;not null" json:"method"`
	Path         string    `gorm:"size:255;not null" json:"path"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ResponseBody string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
}

// BeforeCreate generates a UUID before creating a new idempotency key
func (k *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the IdempotencyKey model
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired reports whether the stored response has passed its retention window
func (k *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}
