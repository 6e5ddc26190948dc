package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Receivable is an amount owed by a customer, tracked independently of the
// cash session. It is created pending (manually or via import) and settled
// at most once; settlement preserves the pre-discount value for history.
type Receivable struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	Description   string                `gorm:"size:255;not null" json:"description"`
	Customer      string                `gorm:"size:255;not null" json:"customer"`
	Value         int64                 `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	DueDate       time.Time             `gorm:"type:date;not null;index" json:"due_date"`
	Status        enum.ReceivableStatus `gorm:"size:20;not null;default:'Pendente';index" json:"status"`
	OriginalValue *int64                `json:"-"` // Pre-discount value, set at settlement
	Discount      *int64                `json:"-"` // Per-item discount applied at settlement
	Addition      *int64                `json:"-"` // Interest/fees added at settlement
	PaymentDate   *time.Time            `gorm:"type:date" json:"payment_date,omitempty"`
	PaymentMethod *string               `gorm:"size:50" json:"payment_method,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	DeletedAt     gorm.DeletedAt        `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receivable) MarshalJSON() ([]byte, error) {
	type Alias Receivable
	out := &struct {
		Alias
		Value         float64  `json:"value"`
		OriginalValue *float64 `json:"original_value,omitempty"`
		Discount      *float64 `json:"discount,omitempty"`
		Addition      *float64 `json:"addition,omitempty"`
	}{
		Alias: Alias(r),
		Value: float64(r.Value) / 100,
	}
	if r.OriginalValue != nil {
		v := float64(*r.OriginalValue) / 100
		out.OriginalValue = &v
	}
	if r.Discount != nil {
		v := float64(*r.Discount) / 100
		out.Discount = &v
	}
	if r.Addition != nil {
		v := float64(*r.Addition) / 100
		out.Addition = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new receivable
func (r *Receivable) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receivable model
func (Receivable) TableName() string {
	return "receivables"
}

// IsOverdue reports whether a pending receivable's due date has passed.
// Overdue is always derived at read time, never written back to the row,
// so there is no background job to keep it in sync.
func (r *Receivable) IsOverdue(today time.Time) bool {
	if r.Status != enum.ReceivableStatusPending {
		return false
	}
	y, m, d := today.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return r.DueDate.Before(startOfToday)
}

// DisplayStatus returns the label shown to operators: the stored status,
// except pending-and-past-due receivables which display as overdue.
func (r *Receivable) DisplayStatus(today time.Time) string {
	if r.IsOverdue(today) {
		return enum.ReceivableStatusOverdue
	}
	return r.Status.String()
}
