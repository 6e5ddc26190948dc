package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	domainRepo "github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/pagination"
	"gorm.io/gorm"
)

type cashSessionRepository struct {
	db *gorm.DB
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *gorm.DB) domainRepo.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

func (r *cashSessionRepository) OpenSession(ctx context.Context, session *entity.CashSession, opening *entity.LedgerEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		opening.SessionID = session.ID
		return tx.Create(opening).Error
	})

	// Two opens can both pass the service's pre-check; the partial unique
	// index on open sessions rejects the second insert.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domainRepo.ErrSessionAlreadyOpen
	}
	return err
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&session, "status = ?", enum.SessionStatusOpen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// CloseSession conditionally flips the session to closed and writes the
// closing entry. The WHERE on status makes concurrent closes resolve to a
// single winner; the loser sees zero rows affected.
func (r *cashSessionRepository) CloseSession(ctx context.Context, session *entity.CashSession, closing *entity.LedgerEntry) (bool, error) {
	closed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.CashSession{}).
			Where("id = ? AND status = ?", session.ID, enum.SessionStatusOpen).
			Updates(map[string]interface{}{
				"status":          session.Status,
				"closing_amount":  session.ClosingAmount,
				"expected_amount": session.ExpectedAmount,
				"difference":      session.Difference,
				"closed_at":       session.ClosedAt,
				"notes":           session.Notes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		closed = true
		closing.SessionID = session.ID
		return tx.Create(closing).Error
	})
	return closed, err
}

func (r *cashSessionRepository) List(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashSession{})
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}

type ledgerEntryRepository struct {
	db *gorm.DB
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *gorm.DB) domainRepo.LedgerEntryRepository {
	return &ledgerEntryRepository{db: db}
}

func (r *ledgerEntryRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerEntryRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerEntryRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
