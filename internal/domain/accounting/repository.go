package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Repository defines the persistence interface for error records
type Repository interface {
	Save(ctx context.Context, e *AppError) error
	FindByID(ctx context.Context, id uuid.UUID) (*AppError, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*AppError], error)
	CountUnresolved(ctx context.Context) (int64, error)
	DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
