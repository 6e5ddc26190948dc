package repository

import (
	"context"

	"github.com/matconsys/matcon-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key storage
type IdempotencyRepository interface {
	// Get returns the stored key, or nil when absent or expired.
	Get(ctx context.Context, key string) (*entity.IdempotencyKey, error)
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
