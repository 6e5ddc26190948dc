package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ErrInsufficientStock is returned by CreateWithStock when a product cannot
// cover the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// SaleRepository defines the interface for sale data operations.
// CreateWithStock runs the whole checkout write set in one transaction.
type SaleRepository interface {
	// CreateWithStock persists the sale with its items, decrements stock
	// for each item conditional on sufficient quantity, and, when entry is
	// non-nil, appends the cash ledger entry. Any failed stock decrement
	// aborts the transaction and returns the offending product ID.
	CreateWithStock(ctx context.Context, sale *entity.Sale, entry *entity.LedgerEntry) (*uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	List(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time, customerID *uuid.UUID) ([]entity.Sale, int64, error)
	// ListByPeriod returns sales with items preloaded for reporting.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.Sale, error)
}
