package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CashSession represents one register's open-to-close working period for a
// given day. Closing amounts stay nil until the session is closed; once
// closed the session is immutable and never reopened.
type CashSession struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Date           time.Time          `gorm:"type:date;not null;index" json:"date"`
	Status         enum.SessionStatus `gorm:"size:20;not null;default:'open';index" json:"status"`
	OpeningAmount  int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	ClosingAmount  *int64             `json:"-"`                 // Counted cash at close, in cents
	ExpectedAmount *int64             `json:"-"`                 // Derived balance at close, in cents
	Difference     *int64             `json:"-"`                 // closing - expected, in cents
	Operator       string             `gorm:"size:255;not null" json:"operator"`
	OpenedAt       time.Time          `json:"opened_at"`
	ClosedAt       *time.Time         `json:"closed_at,omitempty"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Entries []LedgerEntry `gorm:"foreignKey:SessionID" json:"entries,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s CashSession) MarshalJSON() ([]byte, error) {
	type Alias CashSession
	out := &struct {
		Alias
		OpeningAmount  float64  `json:"opening_amount"`
		ClosingAmount  *float64 `json:"closing_amount,omitempty"`
		ExpectedAmount *float64 `json:"expected_amount,omitempty"`
		Difference     *float64 `json:"difference,omitempty"`
	}{
		Alias:         Alias(s),
		OpeningAmount: float64(s.OpeningAmount) / 100,
	}
	if s.ClosingAmount != nil {
		v := float64(*s.ClosingAmount) / 100
		out.ClosingAmount = &v
	}
	if s.ExpectedAmount != nil {
		v := float64(*s.ExpectedAmount) / 100
		out.ExpectedAmount = &v
	}
	if s.Difference != nil {
		v := float64(*s.Difference) / 100
		out.Difference = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new cash session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// IsOpen reports whether movements can still be recorded on this session.
func (s *CashSession) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}

// DifferenceLabel returns "surplus", "shortage" or "balanced" for a closed
// session. The label is presentation only; the stored numeric difference is
// authoritative.
func (s *CashSession) DifferenceLabel() string {
	if s.Difference == nil {
		return ""
	}
	switch {
	case *s.Difference > 0:
		return "surplus"
	case *s.Difference < 0:
		return "shortage"
	}
	return "balanced"
}
