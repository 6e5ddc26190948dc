package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale represents a completed checkout. Totals are stored in cents and
// denormalized at creation time so later price changes never rewrite
// history. When SessionID is set the cash portion was recorded on that
// session's ledger in the same transaction.
type Sale struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo     string         `gorm:"size:50;uniqueIndex;not null" json:"invoice_no"`
	CustomerID    *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID     *uuid.UUID     `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Subtotal      int64          `gorm:"not null" json:"-"`           // Stored in cents
	Discount      int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	Total         int64          `gorm:"not null" json:"-"`           // Stored in cents
	PaymentMethod string         `gorm:"size:50;not null" json:"payment_method"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(s),
		Subtotal: float64(s.Subtotal) / 100,
		Discount: float64(s.Discount) / 100,
		Total:    float64(s.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// GenerateInvoiceNo produces a sequential-looking invoice number from a
// timestamp. Uniqueness is enforced by the database index.
func GenerateInvoiceNo(at time.Time) string {
	return fmt.Sprintf("VND-%s", at.Format("20060102-150405"))
}

// SaleItem is one line of a sale with the unit price frozen in cents
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	Total     int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		Total:     float64(i.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
