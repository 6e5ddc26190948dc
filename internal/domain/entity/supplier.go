package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a vendor the store buys materials from
type Supplier struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Document    *string        `gorm:"size:20;index" json:"document,omitempty"`
	Email       *string        `gorm:"size:255" json:"email,omitempty"`
	PhoneNumber *string        `gorm:"size:20" json:"phone_number,omitempty"`
	Address     *string        `gorm:"size:255" json:"address,omitempty"`
	City        *string        `gorm:"size:100" json:"city,omitempty"`
	ContactName *string        `gorm:"size:255" json:"contact_name,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
