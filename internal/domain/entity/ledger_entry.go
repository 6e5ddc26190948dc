package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"gorm.io/gorm"
)

// LedgerEntry is one atomic cash movement within a session. Entries are
// append-only: they are never updated or deleted, and carry no soft-delete
// column. The amount is always non-negative; direction comes from the kind.
type LedgerEntry struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SessionID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Kind          enum.EntryKind `gorm:"size:20;not null" json:"kind"`
	Amount        int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Description   *string        `gorm:"type:text" json:"description,omitempty"`
	PaymentMethod *string        `gorm:"size:50" json:"payment_method,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// SignedAmount applies the kind's direction to the stored amount.
// Closing entries contribute zero: they mark the count, not a movement.
func (e *LedgerEntry) SignedAmount() int64 {
	return e.Kind.Direction() * e.Amount
}
