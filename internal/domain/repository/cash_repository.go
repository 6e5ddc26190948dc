package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ErrSessionAlreadyOpen is returned by OpenSession when another open session
// already exists, including when two opens race and the store's uniqueness
// constraint rejects the loser.
var ErrSessionAlreadyOpen = errors.New("a cash session is already open")

// CashSessionRepository defines the interface for cash session data operations.
// OpenSession and CloseSession are transactional: the session row and its
// opening/closing ledger entry are persisted together or not at all.
type CashSessionRepository interface {
	// OpenSession persists the session and its opening entry in one
	// transaction. Returns a conflict error from the partial unique index
	// when another open session already exists.
	OpenSession(ctx context.Context, session *entity.CashSession, opening *entity.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	// GetOpenSession returns the currently open session, or nil when the
	// register is closed.
	GetOpenSession(ctx context.Context) (*entity.CashSession, error)
	// CloseSession updates the session's closing fields and appends the
	// closing entry in one transaction. The update is conditional on the
	// session still being open; returns false when it was already closed.
	CloseSession(ctx context.Context, session *entity.CashSession, closing *entity.LedgerEntry) (bool, error)
	List(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time) ([]entity.CashSession, int64, error)
}

// LedgerEntryRepository defines the interface for ledger entry data
// operations. Entries are append-only; there is no update or delete.
type LedgerEntryRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.LedgerEntry, error)
	// ListByPeriod returns entries across sessions for reporting,
	// ordered by creation time.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.LedgerEntry, error)
}
