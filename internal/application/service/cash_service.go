package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/money"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// CashService handles the register lifecycle: opening, recording movements,
// computing the expected balance and closing. All amounts are integer cents.
type CashService struct {
	sessionRepo repository.CashSessionRepository
	entryRepo   repository.LedgerEntryRepository
	now         func() time.Time
}

// NewCashService creates a new cash service
func NewCashService(sessionRepo repository.CashSessionRepository, entryRepo repository.LedgerEntryRepository) *CashService {
	return &CashService{
		sessionRepo: sessionRepo,
		entryRepo:   entryRepo,
		now:         time.Now,
	}
}

// OpenRegisterInput represents the open register input
type OpenRegisterInput struct {
	OpeningAmount int64 // cents
	Operator      string
	Notes         *string
}

// OpenRegister opens a new cash session with its opening ledger entry. The
// session row and the entry are written in one transaction, so a session can
// never exist without its opening entry. Fails with a conflict when another
// session is already open.
func (s *CashService) OpenRegister(ctx context.Context, input *OpenRegisterInput) (*entity.CashSession, error) {
	if input.OpeningAmount < 0 {
		return nil, apperror.NewInvalidAmountError("Opening amount must not be negative")
	}
	if input.Operator == "" {
		return nil, apperror.NewBadRequestError("Operator is required")
	}

	open, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch open session", err)
	}
	if open != nil {
		return nil, apperror.NewConflictError("A cash session is already open")
	}

	now := s.now()
	session := &entity.CashSession{
		Date:          now,
		Status:        enum.SessionStatusOpen,
		OpeningAmount: input.OpeningAmount,
		Operator:      input.Operator,
		OpenedAt:      now,
		Notes:         input.Notes,
	}

	desc := fmt.Sprintf("Abertura de caixa - %s", money.FormatBRL(input.OpeningAmount))
	opening := &entity.LedgerEntry{
		Kind:        enum.EntryKindOpening,
		Amount:      input.OpeningAmount,
		Description: &desc,
	}

	// The partial unique index on open sessions backs this up: two
	// concurrent opens that both pass the check above still cannot both
	// commit, and the loser gets the same conflict as the pre-check.
	if err := s.sessionRepo.OpenSession(ctx, session, opening); err != nil {
		if errors.Is(err, repository.ErrSessionAlreadyOpen) {
			return nil, apperror.NewConflictError("A cash session is already open")
		}
		return nil, apperror.NewStoreFailureError("open session", err)
	}

	session.Entries = []entity.LedgerEntry{*opening}
	return session, nil
}

// RecordMovementInput represents the record movement input
type RecordMovementInput struct {
	Kind          enum.EntryKind
	Amount        int64 // cents
	Description   *string
	PaymentMethod *string
}

// RecordMovement appends a sale, withdrawal or supplement entry to the open
// session. Movements require a strictly positive amount; direction comes
// from the kind, never from the sign.
func (s *CashService) RecordMovement(ctx context.Context, sessionID uuid.UUID, input *RecordMovementInput) (*entity.LedgerEntry, error) {
	if !input.Kind.IsMovement() {
		return nil, apperror.NewBadRequestError("Kind must be sale, withdrawal or supplement")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewInvalidAmountError("Amount must be positive")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	if !session.IsOpen() {
		return nil, apperror.NewInvalidStateError("Cash session is closed")
	}

	entry := &entity.LedgerEntry{
		SessionID:     session.ID,
		Kind:          input.Kind,
		Amount:        input.Amount,
		Description:   input.Description,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.entryRepo.Append(ctx, entry); err != nil {
		return nil, apperror.NewStoreFailureError("append entry", err)
	}
	return entry, nil
}

// ComputeExpectedBalance derives the cash that should be in the drawer:
// opening amount plus sales and supplements, minus withdrawals. Pure integer
// arithmetic over the session's entries; the closing entry contributes zero.
func ComputeExpectedBalance(entries []entity.LedgerEntry) int64 {
	var balance int64
	for i := range entries {
		balance += entries[i].SignedAmount()
	}
	return balance
}

// CloseRegisterInput represents the close register input
type CloseRegisterInput struct {
	CountedAmount int64 // cents, physically counted by the operator
	Notes         *string
}

// CloseRegister closes the session: computes the expected balance from the
// ledger, stores the counted amount and the difference, and appends the
// closing entry in the same transaction. Closing is terminal.
func (s *CashService) CloseRegister(ctx context.Context, sessionID uuid.UUID, input *CloseRegisterInput) (*entity.CashSession, error) {
	if input.CountedAmount < 0 {
		return nil, apperror.NewInvalidAmountError("Counted amount must not be negative")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	if !session.IsOpen() {
		return nil, apperror.NewInvalidStateError("Cash session is already closed")
	}

	expected := ComputeExpectedBalance(session.Entries)
	difference := input.CountedAmount - expected

	now := s.now()
	counted := input.CountedAmount
	session.Status = enum.SessionStatusClosed
	session.ClosingAmount = &counted
	session.ExpectedAmount = &expected
	session.Difference = &difference
	session.ClosedAt = &now
	if input.Notes != nil {
		session.Notes = input.Notes
	}

	desc := fmt.Sprintf("Fechamento de caixa - Diferença: %s", money.FormatBRL(difference))
	closing := &entity.LedgerEntry{
		Kind:        enum.EntryKindClosing,
		Amount:      counted,
		Description: &desc,
	}

	closed, err := s.sessionRepo.CloseSession(ctx, session, closing)
	if err != nil {
		return nil, apperror.NewStoreFailureError("close session", err)
	}
	if !closed {
		return nil, apperror.NewInvalidStateError("Cash session is already closed")
	}

	session.Entries = append(session.Entries, *closing)
	return session, nil
}

// GetSession retrieves a cash session with its entries
func (s *CashService) GetSession(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	return session, nil
}

// GetOpenSession returns the currently open session, or a not found error
// when the register is closed
func (s *CashService) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch open session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Open cash session")
	}
	return session, nil
}

// CurrentBalance returns the open session's derived balance without closing it
func (s *CashService) CurrentBalance(ctx context.Context) (int64, error) {
	session, err := s.GetOpenSession(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeExpectedBalance(session.Entries), nil
}

// ListSessions lists cash sessions with optional date bounds
func (s *CashService) ListSessions(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time) (*pagination.PaginatedResult[entity.CashSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, params, from, to)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list sessions", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// ListEntries lists the ledger entries of a session in chronological order
func (s *CashService) ListEntries(ctx context.Context, sessionID uuid.UUID) ([]entity.LedgerEntry, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	return session.Entries, nil
}
