package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ReceivableFilter narrows receivable listings. Status matches the stored
// status; Overdue additionally restricts to pending rows past due as of Today.
type ReceivableFilter struct {
	Status   string
	Customer string
	Overdue  bool
	Today    time.Time
	From     *time.Time
	To       *time.Time
}

// ReceivableRepository defines the interface for receivable data operations
type ReceivableRepository interface {
	Create(ctx context.Context, receivable *entity.Receivable) error
	CreateBatch(ctx context.Context, receivables []entity.Receivable) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error)
	Update(ctx context.Context, receivable *entity.Receivable) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter *ReceivableFilter) ([]entity.Receivable, int64, error)
	// ListByPeriod returns receivables due inside the period for reporting.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.Receivable, error)
	// Settle flips the receivable to settled with the given payment fields,
	// conditional on it still being pending. Returns false without error
	// when the row was already settled, so concurrent settlements resolve
	// to exactly one winner.
	Settle(ctx context.Context, receivable *entity.Receivable) (bool, error)
}
