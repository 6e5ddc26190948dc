package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	domainRepo "github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/pagination"
	"gorm.io/gorm"
)

type receivableRepository struct {
	db *gorm.DB
}

// NewReceivableRepository creates a new receivable repository
func NewReceivableRepository(db *gorm.DB) domainRepo.ReceivableRepository {
	return &receivableRepository{db: db}
}

func (r *receivableRepository) Create(ctx context.Context, receivable *entity.Receivable) error {
	return r.db.WithContext(ctx).Create(receivable).Error
}

func (r *receivableRepository) CreateBatch(ctx context.Context, receivables []entity.Receivable) error {
	if len(receivables) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(receivables, 100).Error
}

func (r *receivableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error) {
	var receivable entity.Receivable
	err := r.db.WithContext(ctx).First(&receivable, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receivable, err
}

func (r *receivableRepository) Update(ctx context.Context, receivable *entity.Receivable) error {
	return r.db.WithContext(ctx).Save(receivable).Error
}

func (r *receivableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Receivable{}, "id = ?", id).Error
}

func (r *receivableRepository) List(ctx context.Context, params *pagination.PaginationParams, filter *domainRepo.ReceivableFilter) ([]entity.Receivable, int64, error) {
	var receivables []entity.Receivable
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receivable{})

	if filter != nil {
		if filter.Overdue {
			y, m, d := filter.Today.Date()
			startOfToday := time.Date(y, m, d, 0, 0, 0, 0, filter.Today.Location())
			query = query.Where("status = ? AND due_date < ?", enum.ReceivableStatusPending, startOfToday)
		} else if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Customer != "" {
			query = query.Where("customer ILIKE ?", "%"+filter.Customer+"%")
		}
		if filter.From != nil {
			query = query.Where("due_date >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("due_date <= ?", *filter.To)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("due_date ASC").
		Find(&receivables).Error

	return receivables, total, err
}

func (r *receivableRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.Receivable, error) {
	var receivables []entity.Receivable
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&receivables).Error
	return receivables, err
}

// Settle is a compare-and-set on the status column. Only a pending row is
// updated, so two concurrent settlements of the same receivable produce one
// winner and one clean false.
func (r *receivableRepository) Settle(ctx context.Context, receivable *entity.Receivable) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Receivable{}).
		Where("id = ? AND status = ?", receivable.ID, enum.ReceivableStatusPending).
		Updates(map[string]interface{}{
			"status":         enum.ReceivableStatusSettled,
			"value":          receivable.Value,
			"original_value": receivable.OriginalValue,
			"discount":       receivable.Discount,
			"addition":       receivable.Addition,
			"payment_date":   receivable.PaymentDate,
			"payment_method": receivable.PaymentMethod,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
