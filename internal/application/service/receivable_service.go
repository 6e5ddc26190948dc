package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ReceivableService handles receivable tracking and settlement. Settlement
// is one-way: a settled receivable can never go back to pending.
type ReceivableService struct {
	receivableRepo repository.ReceivableRepository
	now            func() time.Time
}

// NewReceivableService creates a new receivable service
func NewReceivableService(receivableRepo repository.ReceivableRepository) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		now:            time.Now,
	}
}

// CreateReceivableInput represents the create receivable input
type CreateReceivableInput struct {
	UserID      uuid.UUID
	Description string
	Customer    string
	Value       int64 // cents
	DueDate     time.Time
}

// CreateReceivable creates a new pending receivable
func (s *ReceivableService) CreateReceivable(ctx context.Context, input *CreateReceivableInput) (*entity.Receivable, error) {
	if input.Value <= 0 {
		return nil, apperror.NewInvalidAmountError("Value must be positive")
	}
	if input.Description == "" || input.Customer == "" {
		return nil, apperror.NewBadRequestError("Description and customer are required")
	}

	receivable := &entity.Receivable{
		UserID:      input.UserID,
		Description: input.Description,
		Customer:    input.Customer,
		Value:       input.Value,
		DueDate:     input.DueDate,
		Status:      enum.ReceivableStatusPending,
	}
	if err := s.receivableRepo.Create(ctx, receivable); err != nil {
		return nil, apperror.NewStoreFailureError("create receivable", err)
	}
	return receivable, nil
}

// GetReceivable retrieves a receivable by ID
func (s *ReceivableService) GetReceivable(ctx context.Context, id uuid.UUID) (*entity.Receivable, error) {
	receivable, err := s.receivableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch receivable", err)
	}
	if receivable == nil {
		return nil, apperror.NewNotFoundError("Receivable")
	}
	return receivable, nil
}

// UpdateReceivableInput represents the update receivable input. Only pending
// receivables can be edited; settled rows are history.
type UpdateReceivableInput struct {
	Description *string
	Customer    *string
	Value       *int64 // cents
	DueDate     *time.Time
}

// UpdateReceivable updates a pending receivable's editable fields
func (s *ReceivableService) UpdateReceivable(ctx context.Context, id uuid.UUID, input *UpdateReceivableInput) (*entity.Receivable, error) {
	receivable, err := s.GetReceivable(ctx, id)
	if err != nil {
		return nil, err
	}
	if receivable.Status != enum.ReceivableStatusPending {
		return nil, apperror.NewInvalidStateError("Only pending receivables can be edited")
	}

	if input.Description != nil {
		receivable.Description = *input.Description
	}
	if input.Customer != nil {
		receivable.Customer = *input.Customer
	}
	if input.Value != nil {
		if *input.Value <= 0 {
			return nil, apperror.NewInvalidAmountError("Value must be positive")
		}
		receivable.Value = *input.Value
	}
	if input.DueDate != nil {
		receivable.DueDate = *input.DueDate
	}

	if err := s.receivableRepo.Update(ctx, receivable); err != nil {
		return nil, apperror.NewStoreFailureError("update receivable", err)
	}
	return receivable, nil
}

// DeleteReceivable removes a pending receivable. Settled receivables are
// kept for history.
func (s *ReceivableService) DeleteReceivable(ctx context.Context, id uuid.UUID) error {
	receivable, err := s.GetReceivable(ctx, id)
	if err != nil {
		return err
	}
	if receivable.Status != enum.ReceivableStatusPending {
		return apperror.NewInvalidStateError("Only pending receivables can be deleted")
	}
	if err := s.receivableRepo.Delete(ctx, id); err != nil {
		return apperror.NewStoreFailureError("delete receivable", err)
	}
	return nil
}

// ListReceivables lists receivables with filtering. Each returned item's
// display status is derived against today, so pending rows past due show as
// overdue without any stored state.
func (s *ReceivableService) ListReceivables(ctx context.Context, params *pagination.PaginationParams, filter *repository.ReceivableFilter) (*pagination.PaginatedResult[entity.Receivable], error) {
	if filter != nil && filter.Overdue && filter.Today.IsZero() {
		filter.Today = s.now()
	}
	receivables, total, err := s.receivableRepo.List(ctx, params, filter)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list receivables", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(receivables, pag), nil
}

// SettleItemInput is one receivable inside a settlement request with its
// per-item adjustments in cents.
type SettleItemInput struct {
	ID       uuid.UUID
	Discount int64
	Addition int64
}

// SettleInput represents a settlement request for one or more receivables.
//
// AggregateDiscount is a whole-batch discount. By default it only adjusts
// the reported total and is not persisted to any item, matching how the
// front counter negotiates a round number without repricing each document.
// With DistributeAggregate it is instead split across the items
// proportionally and persisted per item.
type SettleInput struct {
	Items               []SettleItemInput
	PaymentMethod       string
	PaymentDate         *time.Time
	AggregateDiscount   int64
	DistributeAggregate bool
}

// SettleOutcome is the per-item result of a settlement batch
type SettleOutcome struct {
	ID         uuid.UUID          `json:"id"`
	Receivable *entity.Receivable `json:"receivable,omitempty"`
	Error      *apperror.AppError `json:"error,omitempty"`
}

// SettleResult aggregates the outcomes of a settlement batch. When the
// aggregate discount is distributed, shares allocated to items that failed
// are never applied anywhere; UndistributedDiscount reports that remainder
// so the operator can re-run those items with it.
type SettleResult struct {
	Outcomes              []SettleOutcome `json:"outcomes"`
	SettledCount          int             `json:"settled_count"`
	FailedCount           int             `json:"failed_count"`
	TotalPaid             int64           `json:"total_paid"`                        // cents, after all discounts
	UndistributedDiscount int64           `json:"undistributed_discount,omitempty"` // cents of aggregate discount not applied
}

// Settle settles a batch of receivables. Items succeed or fail
// independently: one already-settled receivable does not block the rest of
// the batch. Re-settling a settled receivable yields an invalid state error
// for that item, never a duplicate payment.
func (s *ReceivableService) Settle(ctx context.Context, input *SettleInput) (*SettleResult, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one receivable is required")
	}
	if input.PaymentMethod == "" {
		return nil, apperror.NewBadRequestError("Payment method is required")
	}
	if input.AggregateDiscount < 0 {
		return nil, apperror.NewInvalidAmountError("Aggregate discount must not be negative")
	}
	for _, item := range input.Items {
		if item.Discount < 0 || item.Addition < 0 {
			return nil, apperror.NewInvalidAmountError("Discounts and additions must not be negative")
		}
	}

	paymentDate := s.now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	// Fetch everything up front so aggregate distribution can weight by the
	// original values.
	type loaded struct {
		item SettleItemInput
		rec  *entity.Receivable
		err  *apperror.AppError
	}
	batch := make([]loaded, 0, len(input.Items))
	for _, item := range input.Items {
		rec, err := s.receivableRepo.GetByID(ctx, item.ID)
		switch {
		case err != nil:
			batch = append(batch, loaded{item: item, err: apperror.NewStoreFailureError("fetch receivable", err)})
		case rec == nil:
			batch = append(batch, loaded{item: item, err: apperror.NewNotFoundError("Receivable")})
		case rec.Status != enum.ReceivableStatusPending:
			batch = append(batch, loaded{item: item, err: apperror.NewInvalidStateError("Receivable is already settled")})
		default:
			batch = append(batch, loaded{item: item, rec: rec})
		}
	}

	var aggregateShares map[uuid.UUID]int64
	if input.DistributeAggregate && input.AggregateDiscount > 0 {
		var settleable []*entity.Receivable
		for _, l := range batch {
			if l.err == nil {
				settleable = append(settleable, l.rec)
			}
		}
		aggregateShares = distributeDiscount(input.AggregateDiscount, settleable)
	}

	result := &SettleResult{}
	for _, l := range batch {
		if l.err != nil {
			result.Outcomes = append(result.Outcomes, SettleOutcome{ID: l.item.ID, Error: l.err})
			result.FailedCount++
			continue
		}

		rec := l.rec
		discount := l.item.Discount + aggregateShares[rec.ID]
		if discount > rec.Value {
			result.Outcomes = append(result.Outcomes, SettleOutcome{
				ID:    l.item.ID,
				Error: apperror.NewInvalidAmountError("Discount exceeds receivable value"),
			})
			result.FailedCount++
			result.UndistributedDiscount += aggregateShares[rec.ID]
			continue
		}

		original := rec.Value
		paid := rec.Value - discount + l.item.Addition
		method := input.PaymentMethod

		rec.Status = enum.ReceivableStatusSettled
		rec.OriginalValue = &original
		rec.Value = paid
		rec.Discount = &discount
		rec.Addition = &l.item.Addition
		rec.PaymentDate = &paymentDate
		rec.PaymentMethod = &method

		settled, err := s.receivableRepo.Settle(ctx, rec)
		switch {
		case err != nil:
			result.Outcomes = append(result.Outcomes, SettleOutcome{
				ID:    l.item.ID,
				Error: apperror.NewStoreFailureError("settle receivable", err),
			})
			result.FailedCount++
			result.UndistributedDiscount += aggregateShares[rec.ID]
		case !settled:
			// Lost a race with a concurrent settlement of the same row.
			result.Outcomes = append(result.Outcomes, SettleOutcome{
				ID:    l.item.ID,
				Error: apperror.NewInvalidStateError("Receivable is already settled"),
			})
			result.FailedCount++
			result.UndistributedDiscount += aggregateShares[rec.ID]
		default:
			result.Outcomes = append(result.Outcomes, SettleOutcome{ID: l.item.ID, Receivable: rec})
			result.SettledCount++
			result.TotalPaid += paid
		}
	}

	// Display-only aggregate discount still reduces the reported total.
	if !input.DistributeAggregate && input.AggregateDiscount > 0 {
		result.TotalPaid -= input.AggregateDiscount
		if result.TotalPaid < 0 {
			result.TotalPaid = 0
		}
	}

	return result, nil
}

// distributeDiscount splits a discount across receivables proportionally to
// their values, in cents, using largest remainders so the shares always sum
// to exactly the discount.
func distributeDiscount(discount int64, recs []*entity.Receivable) map[uuid.UUID]int64 {
	shares := make(map[uuid.UUID]int64, len(recs))
	if len(recs) == 0 || discount <= 0 {
		return shares
	}

	var total int64
	for _, r := range recs {
		total += r.Value
	}
	if total <= 0 {
		return shares
	}

	type rem struct {
		id  uuid.UUID
		rem int64
		ord int
	}
	var assigned int64
	remainders := make([]rem, 0, len(recs))
	for i, r := range recs {
		share := discount * r.Value / total
		shares[r.ID] = share
		assigned += share
		remainders = append(remainders, rem{
			id:  r.ID,
			rem: discount * r.Value % total,
			ord: i,
		})
	}

	// Hand out the leftover cents to the largest remainders, ties broken by
	// batch order so the split is deterministic.
	sort.SliceStable(remainders, func(i, j int) bool {
		if remainders[i].rem != remainders[j].rem {
			return remainders[i].rem > remainders[j].rem
		}
		return remainders[i].ord < remainders[j].ord
	})
	for i := int64(0); i < discount-assigned; i++ {
		shares[remainders[i%int64(len(remainders))].id]++
	}

	return shares
}
